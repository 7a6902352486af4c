package testgen

import (
	"encoding/json"

	"github.com/avolkov/testforge/internal/llm"
	"github.com/avolkov/testforge/internal/model"
)

// GeneratedQuestion is a question as produced by the model: not yet
// persisted, no identifier assigned.
type GeneratedQuestion struct {
	Text          string         `json:"text"`
	Options       []model.Option `json:"options"`
	CorrectAnswer string         `json:"correctAnswer"`
	Explanation   string         `json:"explanation"`
}

type generatedTest struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// ParseQuestions decodes a structured-output payload into the ordered
// question sequence. Validation is shape-only: a correctAnswer that matches
// no option id is accepted as-is.
func ParseQuestions(raw json.RawMessage) ([]GeneratedQuestion, error) {
	if len(raw) == 0 {
		return nil, &llm.GenerationError{Reason: "empty payload"}
	}
	var parsed generatedTest
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &llm.GenerationError{Reason: "decode payload", Content: raw, Err: err}
	}
	if parsed.Questions == nil {
		return nil, &llm.GenerationError{Reason: "payload has no questions array", Content: raw}
	}
	return parsed.Questions, nil
}
