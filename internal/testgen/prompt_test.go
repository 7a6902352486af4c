package testgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptShapeIsFixed(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
	}{
		{"short", "Math", "arithmetic basics"},
		{"empty description", "History", ""},
		{"long description", "Biology", strings.Repeat("cells and organisms ", 200)},
		{"title with quotes", `The "Go" language`, "programming"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildPrompt(tt.title, tt.description)
			// The request always asks for exactly 5 questions with 4
			// options, independent of the input.
			assert.Contains(t, prompt, "5 multiple-choice questions")
			assert.Contains(t, prompt, "4 options each")
			assert.Contains(t, prompt, tt.title)
			assert.Contains(t, prompt, "correct answer and an explanation")
		})
	}
}

func TestSchemaRequiresQuestionFields(t *testing.T) {
	def := TestSchema.Definition
	assert.Equal(t, "generate_test", TestSchema.Name)
	assert.Equal(t, []any{"questions"}, def["required"])

	props := def["properties"].(map[string]any)
	items := props["questions"].(map[string]any)["items"].(map[string]any)
	assert.ElementsMatch(t,
		[]any{"text", "options", "correctAnswer", "explanation"},
		items["required"].([]any))
}
