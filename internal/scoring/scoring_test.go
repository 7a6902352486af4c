package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeSingleChoice(t *testing.T) {
	tests := []struct {
		name      string
		submitted Selection
		want      bool
	}{
		{"correct", Selection{Choice: "c"}, true},
		{"wrong", Selection{Choice: "a"}, false},
		{"unanswered", Selection{}, false},
		{"set answer on single-choice question", Selection{Choices: []string{"c"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Grade([]Item{{
				QuestionID: 1,
				Submitted:  tt.submitted,
				Canonical:  Selection{Choice: "c"},
			}})
			assert.Equal(t, tt.want, summary.Verdicts[0].Correct)
		})
	}
}

func TestGradeMultipleChoiceExactSet(t *testing.T) {
	canonical := Selection{Choices: []string{"a", "c", "d"}}

	tests := []struct {
		name      string
		submitted []string
		want      bool
	}{
		{"exact match", []string{"a", "c", "d"}, true},
		{"order independent", []string{"d", "a", "c"}, true},
		{"subset", []string{"a", "c"}, false},
		{"superset", []string{"a", "c", "d", "b"}, false},
		{"disjoint", []string{"b"}, false},
		{"empty", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Grade([]Item{{
				Submitted: Selection{Choices: tt.submitted},
				Canonical: canonical,
			}})
			assert.Equal(t, tt.want, summary.Verdicts[0].Correct)
		})
	}
}

func TestGradeAggregateRounding(t *testing.T) {
	right := Item{Submitted: Selection{Choice: "a"}, Canonical: Selection{Choice: "a"}}
	wrong := Item{Submitted: Selection{Choice: "b"}, Canonical: Selection{Choice: "a"}}

	tests := []struct {
		name  string
		items []Item
		want  int
	}{
		{"1 of 2", []Item{right, wrong}, 50},
		{"1 of 3", []Item{right, wrong, wrong}, 33},
		{"2 of 3", []Item{right, right, wrong}, 67},
		{"all correct", []Item{right, right}, 100},
		{"none correct", []Item{wrong}, 0},
		{"no questions", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(tt.items).Score)
		})
	}
}

func TestGradePassesExplanationThrough(t *testing.T) {
	summary := Grade([]Item{{
		QuestionID:  7,
		Prompt:      "What is the capital of France?",
		Explanation: "Paris has been the capital since 987.",
		Submitted:   Selection{Choice: "a"},
		Canonical:   Selection{Choice: "a"},
	}})

	v := summary.Verdicts[0]
	assert.Equal(t, int64(7), v.QuestionID)
	assert.Equal(t, "What is the capital of France?", v.Prompt)
	assert.Equal(t, "Paris has been the capital since 987.", v.Explanation)
	assert.True(t, v.Correct)
}
