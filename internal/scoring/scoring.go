// Package scoring compares submitted answers against canonical answers and
// produces per-question verdicts plus an aggregate percentage.
package scoring

import "math"

// Selection is a user's answer to one question: a single option id, or a set
// of option ids when Choices is non-nil. The same type carries canonical
// answers.
type Selection struct {
	Choice  string
	Choices []string
}

// Multiple reports whether the selection is a multiple-choice set.
func (s Selection) Multiple() bool {
	return s.Choices != nil
}

// Item is one (question, submitted answer, canonical answer) triple.
type Item struct {
	QuestionID  int64
	Prompt      string
	Explanation string
	Submitted   Selection
	Canonical   Selection
}

// Verdict is the graded outcome for one question. Explanation passes through
// unchanged.
type Verdict struct {
	QuestionID  int64  `json:"questionId"`
	Prompt      string `json:"prompt"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// Summary is the graded outcome for a whole test. Score is the percentage of
// correct answers rounded to the nearest integer.
type Summary struct {
	Verdicts []Verdict `json:"verdicts"`
	Score    int       `json:"score"`
}

// Grade scores all items. Single-choice answers compare option ids directly;
// multiple-choice answers require exact set equality with the canonical set,
// order-independent and with no partial credit.
func Grade(items []Item) Summary {
	summary := Summary{Verdicts: make([]Verdict, 0, len(items))}
	correct := 0
	for _, item := range items {
		ok := isCorrect(item.Submitted, item.Canonical)
		if ok {
			correct++
		}
		summary.Verdicts = append(summary.Verdicts, Verdict{
			QuestionID:  item.QuestionID,
			Prompt:      item.Prompt,
			Correct:     ok,
			Explanation: item.Explanation,
		})
	}
	if len(items) > 0 {
		summary.Score = int(math.Round(float64(correct) / float64(len(items)) * 100))
	}
	return summary
}

func isCorrect(submitted, canonical Selection) bool {
	if canonical.Multiple() {
		return setEqual(submitted.Choices, canonical.Choices)
	}
	return !submitted.Multiple() && submitted.Choice == canonical.Choice
}

// setEqual compares two id sets ignoring order. Duplicate ids within a set
// count once.
func setEqual(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, id := range a {
		seen[id] = true
	}
	want := make(map[string]bool, len(b))
	for _, id := range b {
		want[id] = true
	}
	if len(seen) != len(want) {
		return false
	}
	for id := range want {
		if !seen[id] {
			return false
		}
	}
	return true
}
