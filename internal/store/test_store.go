package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avolkov/testforge/internal/model"

	_ "modernc.org/sqlite"
)

// TestStore persists tests and their questions. Topics live in a separate
// store (and a separate database file); a test's TopicID is a cross-store
// reference that is never joined here.
type TestStore struct {
	db *sql.DB
}

// OpenTestStore opens (or creates) the tests database at dbPath.
func OpenTestStore(dbPath string) (*TestStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open tests database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping tests database: %w", err)
	}
	s := &TestStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate tests database: %w", err)
	}
	return s, nil
}

func (s *TestStore) Close() error {
	return s.db.Close()
}

// Ping verifies the underlying database connection.
func (s *TestStore) Ping() error {
	return s.db.Ping()
}

func (s *TestStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		status TEXT NOT NULL,
		question_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		test_id INTEGER NOT NULL,
		text TEXT NOT NULL,
		options TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		question_order INTEGER NOT NULL,
		FOREIGN KEY (test_id) REFERENCES tests(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateTest inserts a test header in "creating" status with the declared
// question count and returns the generated identifier. The count is declared
// up front; how many questions actually land is reported by AddQuestions.
func (s *TestStore) CreateTest(topicID model.TopicRef, questionCount int) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO tests (topic_id, created_at, status, question_count) VALUES (?, ?, ?, ?)`,
		string(topicID), time.Now().UTC().Format(time.RFC3339), string(model.TestCreating), questionCount,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddQuestion inserts one question linked to testID at the given 1-based
// position. Options are stored JSON-encoded in a single column.
func (s *TestStore) AddQuestion(testID int64, q model.Question, position int) (int64, error) {
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return 0, fmt.Errorf("encode options: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO questions (test_id, text, options, correct_answer, explanation, question_order)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		testID, q.Text, string(opts), q.CorrectAnswer, q.Explanation, position,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// BatchFailure records one failed insert within a batch.
type BatchFailure struct {
	Position int
	Err      error
}

// BatchResult reports the per-item outcome of a batch of question inserts.
// A failed item never aborts the batch; the caller decides whether partial
// persistence is acceptable.
type BatchResult struct {
	Inserted int
	Failures []BatchFailure
}

// Partial reports whether some, but not all, inserts succeeded or the batch
// had failures at all.
func (r BatchResult) Partial() bool {
	return len(r.Failures) > 0
}

// AddQuestions inserts questions in slice order at positions 1..n. Each
// insert is independent: a failure is recorded in the result and the loop
// continues with the next question.
func (s *TestStore) AddQuestions(testID int64, questions []model.Question) BatchResult {
	var result BatchResult
	for i, q := range questions {
		position := i + 1
		if _, err := s.AddQuestion(testID, q, position); err != nil {
			result.Failures = append(result.Failures, BatchFailure{Position: position, Err: err})
			continue
		}
		result.Inserted++
	}
	return result
}

// FinalizeTest sets the test status to "ready". It is unconditional: the
// status flips regardless of how many question inserts succeeded.
func (s *TestStore) FinalizeTest(testID int64) error {
	_, err := s.db.Exec(`UPDATE tests SET status = ? WHERE id = ?`, string(model.TestReady), testID)
	return err
}

// GetTest returns the test header and its questions ordered by position
// ascending. A test with no questions returns an empty slice, not an error.
// Returns ErrNotFound if no test matches.
func (s *TestStore) GetTest(id int64) (model.Test, []model.Question, error) {
	var (
		t         model.Test
		topicID   string
		createdAt string
		status    string
	)
	err := s.db.QueryRow(
		`SELECT id, topic_id, created_at, status, question_count FROM tests WHERE id = ?`, id,
	).Scan(&t.ID, &topicID, &createdAt, &status, &t.QuestionCount)
	if err == sql.ErrNoRows {
		return model.Test{}, nil, fmt.Errorf("test %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Test{}, nil, err
	}
	t.TopicID = model.TopicRef(topicID)
	t.Status = model.TestStatus(status)
	if ts, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
		t.CreatedAt = ts
	}

	questions, err := s.questionsForTest(id)
	if err != nil {
		return model.Test{}, nil, err
	}
	return t, questions, nil
}

func (s *TestStore) questionsForTest(testID int64) ([]model.Question, error) {
	rows, err := s.db.Query(
		`SELECT id, test_id, text, options, correct_answer, explanation, question_order
		 FROM questions WHERE test_id = ? ORDER BY question_order ASC`, testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var (
			q    model.Question
			opts string
		)
		if err := rows.Scan(&q.ID, &q.TestID, &q.Text, &opts, &q.CorrectAnswer, &q.Explanation, &q.Order); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for question %d: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListTestsByTopic returns all tests for a topic, newest first.
func (s *TestStore) ListTestsByTopic(topicID model.TopicRef) ([]model.Test, error) {
	rows, err := s.db.Query(
		`SELECT id, topic_id, created_at, status, question_count FROM tests WHERE topic_id = ? ORDER BY id DESC`,
		string(topicID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tests := []model.Test{}
	for rows.Next() {
		var (
			t         model.Test
			topic     string
			createdAt string
			status    string
		)
		if err := rows.Scan(&t.ID, &topic, &createdAt, &status, &t.QuestionCount); err != nil {
			return nil, err
		}
		t.TopicID = model.TopicRef(topic)
		t.Status = model.TestStatus(status)
		if ts, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
			t.CreatedAt = ts
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}
