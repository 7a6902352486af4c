package testgen

import "github.com/avolkov/testforge/internal/llm"

// TestSchema constrains the model's reply to a list of multiple-choice
// questions, each with {id, text} options, a correct answer, and an
// explanation.
var TestSchema = &llm.Schema{
	Name:        "generate_test",
	Description: "Generate a test with multiple-choice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{"type": "string"},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"id":   map[string]any{"type": "string"},
									"text": map[string]any{"type": "string"},
								},
								"required": []any{"id", "text"},
							},
						},
						"correctAnswer": map[string]any{"type": "string"},
						"explanation":   map[string]any{"type": "string"},
					},
					"required": []any{"text", "options", "correctAnswer", "explanation"},
				},
			},
		},
		"required": []any{"questions"},
	},
}
