package store

import "errors"

// ErrNotFound is returned when a lookup key matches no row.
var ErrNotFound = errors.New("not found")
