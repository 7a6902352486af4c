package llm

import (
	"encoding/json"
	"fmt"
)

// GenerationError indicates the model call produced no usable structured
// payload: the call failed, returned nothing, or returned JSON that does not
// match the requested schema. Content holds the raw payload when one exists.
type GenerationError struct {
	Reason  string
	Content json.RawMessage
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }
