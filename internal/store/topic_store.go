package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avolkov/testforge/internal/model"

	_ "modernc.org/sqlite"
)

// TopicStore persists topics and document records. It is deliberately
// independent from TestStore: the two use separate database files and are
// never joined.
type TopicStore struct {
	db *sql.DB
}

// OpenTopicStore opens (or creates) the topics database at dbPath.
func OpenTopicStore(dbPath string) (*TopicStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open topics database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping topics database: %w", err)
	}
	s := &TopicStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate topics database: %w", err)
	}
	return s, nil
}

func (s *TopicStore) Close() error {
	return s.db.Close()
}

// Ping verifies the underlying database connection.
func (s *TopicStore) Ping() error {
	return s.db.Ping()
}

func (s *TopicStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS topics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		documents_count INTEGER NOT NULL DEFAULT 0,
		tests_count INTEGER NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		user_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic_id TEXT NOT NULL,
		name TEXT NOT NULL,
		object_key TEXT NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		uploaded_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateTopic inserts a topic and returns the generated identifier.
func (s *TopicStore) CreateTopic(t model.Topic) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO topics (title, color, documents_count, tests_count, description, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Title, t.Color, t.DocumentsCount, t.TestsCount, t.Description, t.UserID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetTopic returns a topic by id, or ErrNotFound.
func (s *TopicStore) GetTopic(id int64) (model.Topic, error) {
	var t model.Topic
	err := s.db.QueryRow(
		`SELECT id, title, color, documents_count, tests_count, description, user_id FROM topics WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &t.Color, &t.DocumentsCount, &t.TestsCount, &t.Description, &t.UserID)
	if err == sql.ErrNoRows {
		return model.Topic{}, fmt.Errorf("topic %d: %w", id, ErrNotFound)
	}
	return t, err
}

// ListTopicsByUser returns all topics owned by userID.
func (s *TopicStore) ListTopicsByUser(userID string) ([]model.Topic, error) {
	rows, err := s.db.Query(
		`SELECT id, title, color, documents_count, tests_count, description, user_id FROM topics WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.Color, &t.DocumentsCount, &t.TestsCount, &t.Description, &t.UserID); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// UpdateTopic applies the non-nil fields of upd to the topic. An empty update
// issues no statement. Updating a missing id is not an error: zero rows
// changed still counts as success.
func (s *TopicStore) UpdateTopic(id int64, upd model.TopicUpdate) error {
	query := `UPDATE topics SET`
	var (
		args  []any
		first = true
	)
	set := func(column string, value any) {
		if !first {
			query += ","
		}
		query += fmt.Sprintf(" %s = ?", column)
		args = append(args, value)
		first = false
	}
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Color != nil {
		set("color", *upd.Color)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.DocumentsCount != nil {
		set("documents_count", *upd.DocumentsCount)
	}
	if upd.TestsCount != nil {
		set("tests_count", *upd.TestsCount)
	}
	if first {
		return nil
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	_, err := s.db.Exec(query, args...)
	return err
}

// IncrementTestsCount bumps the denormalized test counter on a topic.
func (s *TopicStore) IncrementTestsCount(id int64) error {
	_, err := s.db.Exec(`UPDATE topics SET tests_count = tests_count + 1 WHERE id = ?`, id)
	return err
}

// IncrementDocumentsCount bumps the denormalized document counter on a topic.
func (s *TopicStore) IncrementDocumentsCount(id int64) error {
	_, err := s.db.Exec(`UPDATE topics SET documents_count = documents_count + 1 WHERE id = ?`, id)
	return err
}

// AddDocument inserts a document record and returns the generated identifier.
func (s *TopicStore) AddDocument(d model.Document) (int64, error) {
	uploadedAt := d.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO documents (topic_id, name, object_key, content_type, size, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(d.TopicID), d.Name, d.ObjectKey, d.ContentType, d.Size, uploadedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListDocumentsByTopic returns all document records for a topic, newest first.
func (s *TopicStore) ListDocumentsByTopic(topicID model.TopicRef) ([]model.Document, error) {
	rows, err := s.db.Query(
		`SELECT id, topic_id, name, object_key, content_type, size, uploaded_at
		 FROM documents WHERE topic_id = ? ORDER BY id DESC`,
		string(topicID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var (
			d          model.Document
			topic      string
			uploadedAt string
		)
		if err := rows.Scan(&d.ID, &topic, &d.Name, &d.ObjectKey, &d.ContentType, &d.Size, &uploadedAt); err != nil {
			return nil, err
		}
		d.TopicID = model.TopicRef(topic)
		if ts, perr := time.Parse(time.RFC3339, uploadedAt); perr == nil {
			d.UploadedAt = ts
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
