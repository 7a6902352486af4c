// Package apiclient is the HTTP client side of the testforge API. The
// test-taking session uses it to fetch persisted tests; tooling can drive the
// topic endpoints through it as well.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"resty.dev/v3"

	"github.com/avolkov/testforge/internal/model"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// Client talks to a testforge server.
type Client struct {
	http *resty.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetHeader("Content-Type", "application/json")
	return &Client{http: c}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

type testEnvelope struct {
	Test      model.Test       `json:"test"`
	Questions []model.Question `json:"questions"`
}

// GetTest fetches a test header and its ordered questions. Satisfies
// session.TestLoader.
func (c *Client) GetTest(ctx context.Context, id int64) (model.Test, []model.Question, error) {
	var out testEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/tests/" + strconv.FormatInt(id, 10))
	if err != nil {
		return model.Test{}, nil, fmt.Errorf("get test %d: %w", id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return model.Test{}, nil, fmt.Errorf("test %d: %w", id, ErrNotFound)
	}
	if resp.IsError() {
		return model.Test{}, nil, fmt.Errorf("get test %d: status %d", id, resp.StatusCode())
	}
	return out.Test, out.Questions, nil
}

// ListTopics fetches all topics owned by userID.
func (c *Client) ListTopics(ctx context.Context, userID string) ([]model.Topic, error) {
	var out []model.Topic
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("userId", userID).
		SetResult(&out).
		Get("/api/topics")
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list topics: status %d", resp.StatusCode())
	}
	return out, nil
}

// GetTopic fetches a topic by id.
func (c *Client) GetTopic(ctx context.Context, id int64) (model.Topic, error) {
	var out model.Topic
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/topics/" + strconv.FormatInt(id, 10))
	if err != nil {
		return model.Topic{}, fmt.Errorf("get topic %d: %w", id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return model.Topic{}, fmt.Errorf("topic %d: %w", id, ErrNotFound)
	}
	if resp.IsError() {
		return model.Topic{}, fmt.Errorf("get topic %d: status %d", id, resp.StatusCode())
	}
	return out, nil
}

// CreateTopic creates a topic and returns the assigned id.
func (c *Client) CreateTopic(ctx context.Context, topic model.Topic) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(topic).
		SetResult(&out).
		Post("/api/topics")
	if err != nil {
		return 0, fmt.Errorf("create topic: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("create topic: status %d", resp.StatusCode())
	}
	return out.ID, nil
}

// GenerateRequest is the body of POST /api/generate-test.
type GenerateRequest struct {
	TopicID          model.TopicRef `json:"topicId"`
	TopicTitle       string         `json:"topicTitle"`
	TopicDescription string         `json:"topicDescription"`
}

// GenerateTest asks the server to generate and persist a test for a topic.
func (c *Client) GenerateTest(ctx context.Context, req GenerateRequest) (int64, model.TestStatus, error) {
	var out struct {
		TestID int64            `json:"testId"`
		Status model.TestStatus `json:"status"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/generate-test")
	if err != nil {
		return 0, "", fmt.Errorf("generate test: %w", err)
	}
	if resp.IsError() {
		return 0, "", fmt.Errorf("generate test: status %d", resp.StatusCode())
	}
	return out.TestID, out.Status, nil
}
