// Package session drives a learner through a test one question at a time,
// accumulating answers locally. Answers never leave the session: scoring runs
// in-process over the questions fetched with the test.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/testforge/internal/model"
	"github.com/avolkov/testforge/internal/scoring"
)

// State is the test-taking session state.
type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	// StateNotFound is terminal: the test loaded but had no questions.
	StateNotFound State = "not_found"
)

// TestLoader fetches a test and its ordered questions. *apiclient.Client and
// any store-backed adapter satisfy it.
type TestLoader interface {
	GetTest(ctx context.Context, id int64) (model.Test, []model.Question, error)
}

// DefaultSubmitDelay mimics the fixed submission pause in the browser flow.
const DefaultSubmitDelay = 1500 * time.Millisecond

// Session is a single learner's walk through one test.
type Session struct {
	id          string
	loader      TestLoader
	submitDelay time.Duration

	state     State
	test      model.Test
	questions []model.Question
	index     int
	answers   map[int64]scoring.Selection
}

// Option configures a Session.
type Option func(*Session)

// WithSubmitDelay overrides the fixed submission delay.
func WithSubmitDelay(d time.Duration) Option {
	return func(s *Session) { s.submitDelay = d }
}

// New creates a session in the Loading state.
func New(loader TestLoader, opts ...Option) *Session {
	s := &Session{
		id:          uuid.NewString(),
		loader:      loader,
		submitDelay: DefaultSubmitDelay,
		state:       StateLoading,
		answers:     map[int64]scoring.Selection{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Test returns the loaded test header.
func (s *Session) Test() model.Test { return s.test }

// Load fetches the test and transitions to InProgress at the first question,
// or to the terminal NotFound state when the test has no questions.
func (s *Session) Load(ctx context.Context, testID int64) error {
	if s.state != StateLoading {
		return fmt.Errorf("load: session already %s", s.state)
	}
	test, questions, err := s.loader.GetTest(ctx, testID)
	if err != nil {
		return fmt.Errorf("load test %d: %w", testID, err)
	}
	s.test = test
	s.questions = questions
	if len(questions) == 0 {
		s.state = StateNotFound
		return nil
	}
	s.index = 0
	s.state = StateInProgress
	return nil
}

// Current returns the question at the cursor. ok is false outside InProgress.
func (s *Session) Current() (q model.Question, ok bool) {
	if s.state != StateInProgress {
		return model.Question{}, false
	}
	return s.questions[s.index], true
}

// Index returns the 0-based cursor position.
func (s *Session) Index() int { return s.index }

// RecordAnswer stores the selection for a question, overwriting any prior
// answer. No arity validation happens here: a set answer on a single-choice
// question is recorded as given and judged at scoring time.
func (s *Session) RecordAnswer(questionID int64, sel scoring.Selection) {
	if s.state != StateInProgress {
		return
	}
	s.answers[questionID] = sel
}

// Advance moves to the next question; at the last question it transitions to
// Submitting instead.
func (s *Session) Advance() {
	if s.state != StateInProgress {
		return
	}
	if s.index < len(s.questions)-1 {
		s.index++
		return
	}
	s.state = StateSubmitting
}

// Retreat moves to the previous question, floored at the first. No-op at
// index 0.
func (s *Session) Retreat() {
	if s.state != StateInProgress {
		return
	}
	if s.index > 0 {
		s.index--
	}
}

// Submit completes the submission pause and transitions to Completed. There
// is no network submission: accumulated answers stay in the session.
func (s *Session) Submit(ctx context.Context) error {
	if s.state != StateSubmitting {
		return fmt.Errorf("submit: session is %s", s.state)
	}
	select {
	case <-time.After(s.submitDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	s.state = StateCompleted
	return nil
}

// Results grades the accumulated answers against the canonical answers that
// came with the test. Valid only once Completed.
func (s *Session) Results() (scoring.Summary, error) {
	if s.state != StateCompleted {
		return scoring.Summary{}, fmt.Errorf("results: session is %s", s.state)
	}
	items := make([]scoring.Item, 0, len(s.questions))
	for _, q := range s.questions {
		items = append(items, scoring.Item{
			QuestionID:  q.ID,
			Prompt:      q.Text,
			Explanation: q.Explanation,
			Submitted:   s.answers[q.ID],
			Canonical:   scoring.Selection{Choice: q.CorrectAnswer},
		})
	}
	return scoring.Grade(items), nil
}
