package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/testforge/internal/model"
)

func newTestStore(t *testing.T) *TestStore {
	t.Helper()
	s, err := OpenTestStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleQuestion(text string) model.Question {
	return model.Question{
		Text: text,
		Options: []model.Option{
			{ID: "a", Text: "first"},
			{ID: "b", Text: "second"},
			{ID: "c", Text: "third"},
			{ID: "d", Text: "fourth"},
		},
		CorrectAnswer: "b",
		Explanation:   "explanation for " + text,
	}
}

func TestCreateTestAndGet(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateTest("topic-1", 5)
	require.NoError(t, err)

	test, questions, err := s.GetTest(id)
	require.NoError(t, err)
	assert.Equal(t, model.TopicRef("topic-1"), test.TopicID)
	assert.Equal(t, model.TestCreating, test.Status)
	assert.Equal(t, 5, test.QuestionCount)
	assert.False(t, test.CreatedAt.IsZero())

	// A freshly created test has no questions yet; that is not an error.
	assert.Empty(t, questions)
}

func TestGetTestNotFound(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.GetTest(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionsOrderedByPosition(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateTest("topic-1", 3)
	require.NoError(t, err)

	// Insert out of order; retrieval must sort by position ascending.
	_, err = s.AddQuestion(id, sampleQuestion("third"), 3)
	require.NoError(t, err)
	_, err = s.AddQuestion(id, sampleQuestion("first"), 1)
	require.NoError(t, err)
	_, err = s.AddQuestion(id, sampleQuestion("second"), 2)
	require.NoError(t, err)

	_, questions, err := s.GetTest(id)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "first", questions[0].Text)
	assert.Equal(t, "second", questions[1].Text)
	assert.Equal(t, "third", questions[2].Text)
	assert.Equal(t, []int{1, 2, 3}, []int{questions[0].Order, questions[1].Order, questions[2].Order})
}

func TestQuestionOptionsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateTest("topic-1", 1)
	require.NoError(t, err)

	q := sampleQuestion("round trip")
	_, err = s.AddQuestion(id, q, 1)
	require.NoError(t, err)

	_, questions, err := s.GetTest(id)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, q.Options, questions[0].Options)
	assert.Equal(t, "b", questions[0].CorrectAnswer)
}

func TestAddQuestionsBatch(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateTest("topic-1", 3)
	require.NoError(t, err)

	batch := s.AddQuestions(id, []model.Question{
		sampleQuestion("q1"), sampleQuestion("q2"), sampleQuestion("q3"),
	})
	assert.Equal(t, 3, batch.Inserted)
	assert.False(t, batch.Partial())

	_, questions, err := s.GetTest(id)
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

func TestAddQuestionsRecordsFailures(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateTest("topic-1", 2)
	require.NoError(t, err)

	// Break the questions table so every insert fails.
	_, err = s.db.Exec(`DROP TABLE questions`)
	require.NoError(t, err)

	batch := s.AddQuestions(id, []model.Question{
		sampleQuestion("q1"), sampleQuestion("q2"),
	})
	assert.Equal(t, 0, batch.Inserted)
	assert.True(t, batch.Partial())
	require.Len(t, batch.Failures, 2)
	assert.Equal(t, 1, batch.Failures[0].Position)
	assert.Equal(t, 2, batch.Failures[1].Position)
	assert.Error(t, batch.Failures[0].Err)
}

func TestFinalizeSetsReady(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateTest("topic-1", 5)
	require.NoError(t, err)

	batch := s.AddQuestions(id, []model.Question{
		sampleQuestion("q1"), sampleQuestion("q2"), sampleQuestion("q3"),
		sampleQuestion("q4"), sampleQuestion("q5"),
	})
	require.Equal(t, 5, batch.Inserted)
	require.NoError(t, s.FinalizeTest(id))

	test, questions, err := s.GetTest(id)
	require.NoError(t, err)
	assert.Equal(t, model.TestReady, test.Status)
	assert.Len(t, questions, 5)
}

// Partial persistence is accepted behavior: only 3 of the declared 5
// questions land, finalize still flips the test to ready, and reads return
// the 3 that made it.
func TestPartialPersistenceStillFinalizes(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateTest("topic-1", 5)
	require.NoError(t, err)

	for i, text := range []string{"q1", "q2", "q3"} {
		_, err := s.AddQuestion(id, sampleQuestion(text), i+1)
		require.NoError(t, err)
	}

	require.NoError(t, s.FinalizeTest(id))

	test, questions, err := s.GetTest(id)
	require.NoError(t, err)
	assert.Equal(t, model.TestReady, test.Status)
	assert.Equal(t, 5, test.QuestionCount)
	assert.Len(t, questions, 3)
}

func TestListTestsByTopic(t *testing.T) {
	s := newTestStore(t)

	first, err := s.CreateTest("topic-1", 5)
	require.NoError(t, err)
	second, err := s.CreateTest("topic-1", 5)
	require.NoError(t, err)
	_, err = s.CreateTest("topic-2", 5)
	require.NoError(t, err)

	tests, err := s.ListTestsByTopic("topic-1")
	require.NoError(t, err)
	require.Len(t, tests, 2)
	// Newest first.
	assert.Equal(t, second, tests[0].ID)
	assert.Equal(t, first, tests[1].ID)

	none, err := s.ListTestsByTopic("topic-3")
	require.NoError(t, err)
	assert.Empty(t, none)
}
