package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questionSchema = &Schema{
	Name:        "question-list",
	Description: "a list of questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text":          map[string]any{"type": "string"},
						"correctAnswer": map[string]any{"type": "string"},
					},
					"required": []any{"text", "correctAnswer"},
				},
			},
		},
		"required": []any{"questions"},
	},
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"questions": [{"text": "Q1", "correctAnswer": "a"}]}`, false},
		{"empty list", `{"questions": []}`, false},
		{"missing questions", `{}`, true},
		{"questions not array", `{"questions": 5}`, true},
		{"item missing field", `{"questions": [{"text": "Q1"}]}`, true},
		{"not JSON", `{{`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePayload(questionSchema, json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				var genErr *GenerationError
				assert.ErrorAs(t, err, &genErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCompiledSchemaIsCached(t *testing.T) {
	first, err := compiledSchema(questionSchema)
	require.NoError(t, err)
	second, err := compiledSchema(questionSchema)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestGenerationErrorWrapping(t *testing.T) {
	inner := assert.AnError
	err := &GenerationError{Reason: "decode payload", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "decode payload")
}
