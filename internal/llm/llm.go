package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// Client wraps an OpenAI-compatible API client for structured generation.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client. baseURL may point at any OpenAI-compatible
// endpoint; empty means the OpenAI default.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Ping verifies the endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM endpoint unreachable: %w", err)
	}
	return nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// GenerateStructured sends prompt to the model and forces a structured reply
// through a function call constrained by schema. The returned payload is the
// function-call arguments, validated against the schema. All failure modes
// surface as *GenerationError.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, schema *Schema) (json.RawMessage, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Functions: []openai.FunctionDefinition{
			{
				Name:        schema.Name,
				Description: schema.Description,
				Parameters:  schema.Definition,
			},
		},
		FunctionCall: openai.FunctionCall{Name: schema.Name},
	})
	if err != nil {
		return nil, &GenerationError{Reason: "API call", Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &GenerationError{Reason: "no choices in response"}
	}
	call := resp.Choices[0].Message.FunctionCall
	if call == nil || call.Arguments == "" {
		return nil, &GenerationError{Reason: "no function call returned"}
	}

	raw := json.RawMessage(call.Arguments)
	slog.Debug("LLM structured response", "function", schema.Name, "raw", call.Arguments)

	if err := validatePayload(schema, raw); err != nil {
		return nil, err
	}
	return raw, nil
}
