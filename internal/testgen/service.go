package testgen

import (
	"context"
	"encoding/json"

	"github.com/avolkov/testforge/internal/llm"
)

// Generator produces schema-constrained structured output. *llm.Client
// satisfies it; tests substitute a fake.
type Generator interface {
	GenerateStructured(ctx context.Context, prompt string, schema *llm.Schema) (json.RawMessage, error)
}

// Service turns topic metadata into a parsed question sequence.
type Service struct {
	gen Generator
}

// NewService creates a generation service on top of gen.
func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

// Generate builds the prompt for the topic, calls the model, and parses the
// structured reply. No retries: any failure is returned to the caller.
func (s *Service) Generate(ctx context.Context, topicTitle, topicDescription string) ([]GeneratedQuestion, error) {
	prompt := BuildPrompt(topicTitle, topicDescription)
	raw, err := s.gen.GenerateStructured(ctx, prompt, TestSchema)
	if err != nil {
		return nil, err
	}
	return ParseQuestions(raw)
}
