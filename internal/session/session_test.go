package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/testforge/internal/model"
	"github.com/avolkov/testforge/internal/scoring"
)

type fakeLoader struct {
	test      model.Test
	questions []model.Question
	err       error
}

func (f *fakeLoader) GetTest(_ context.Context, _ int64) (model.Test, []model.Question, error) {
	return f.test, f.questions, f.err
}

func threeQuestions() []model.Question {
	qs := make([]model.Question, 3)
	for i := range qs {
		qs[i] = model.Question{
			ID:            int64(i + 1),
			Text:          "question",
			CorrectAnswer: "a",
			Explanation:   "because",
			Order:         i + 1,
		}
	}
	return qs
}

func loadedSession(t *testing.T, questions []model.Question) *Session {
	t.Helper()
	s := New(&fakeLoader{test: model.Test{ID: 1, Status: model.TestReady}, questions: questions},
		WithSubmitDelay(0))
	require.NoError(t, s.Load(context.Background(), 1))
	return s
}

func TestLoadTransitionsToInProgress(t *testing.T) {
	s := loadedSession(t, threeQuestions())
	assert.Equal(t, StateInProgress, s.State())
	assert.Equal(t, 0, s.Index())
	assert.NotEmpty(t, s.ID())

	q, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, int64(1), q.ID)
}

func TestLoadEmptyTestIsNotFound(t *testing.T) {
	s := New(&fakeLoader{test: model.Test{ID: 1}}, WithSubmitDelay(0))
	require.NoError(t, s.Load(context.Background(), 1))
	assert.Equal(t, StateNotFound, s.State())

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestLoadPropagatesLoaderError(t *testing.T) {
	loadErr := errors.New("boom")
	s := New(&fakeLoader{err: loadErr})
	err := s.Load(context.Background(), 1)
	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, StateLoading, s.State())
}

func TestAdvanceAndRetreat(t *testing.T) {
	s := loadedSession(t, threeQuestions())

	// Retreat at the first question is a no-op.
	s.Retreat()
	assert.Equal(t, 0, s.Index())

	s.Advance()
	assert.Equal(t, 1, s.Index())
	s.Retreat()
	assert.Equal(t, 0, s.Index())

	s.Advance()
	s.Advance()
	assert.Equal(t, 2, s.Index())
	assert.Equal(t, StateInProgress, s.State())

	// Advancing past the last question transitions to Submitting.
	s.Advance()
	assert.Equal(t, StateSubmitting, s.State())
}

func TestRecordAnswerOverwrites(t *testing.T) {
	s := loadedSession(t, threeQuestions())

	s.RecordAnswer(1, scoring.Selection{Choice: "b"})
	s.RecordAnswer(1, scoring.Selection{Choice: "a"})
	s.RecordAnswer(2, scoring.Selection{Choices: []string{"a", "c"}})

	s.Advance()
	s.Advance()
	s.Advance()
	require.NoError(t, s.Submit(context.Background()))

	summary, err := s.Results()
	require.NoError(t, err)
	require.Len(t, summary.Verdicts, 3)
	assert.True(t, summary.Verdicts[0].Correct)  // overwritten to "a"
	assert.False(t, summary.Verdicts[1].Correct) // set answer on single-choice
	assert.False(t, summary.Verdicts[2].Correct) // unanswered
	assert.Equal(t, 33, summary.Score)
}

func TestSubmitOnlyFromSubmitting(t *testing.T) {
	s := loadedSession(t, threeQuestions())
	assert.Error(t, s.Submit(context.Background()))

	s.Advance()
	s.Advance()
	s.Advance()
	require.NoError(t, s.Submit(context.Background()))
	assert.Equal(t, StateCompleted, s.State())
}

func TestResultsBeforeCompletionFails(t *testing.T) {
	s := loadedSession(t, threeQuestions())
	_, err := s.Results()
	assert.Error(t, err)
}

func TestResultsExplanationPassthrough(t *testing.T) {
	s := loadedSession(t, threeQuestions())
	s.RecordAnswer(1, scoring.Selection{Choice: "a"})
	s.Advance()
	s.Advance()
	s.Advance()
	require.NoError(t, s.Submit(context.Background()))

	summary, err := s.Results()
	require.NoError(t, err)
	assert.Equal(t, "because", summary.Verdicts[0].Explanation)
}
