package model

import "time"

// TestStatus represents the lifecycle status of a generated test.
type TestStatus string

const (
	// TestCreating is set when the test header exists but questions are
	// still being written.
	TestCreating TestStatus = "creating"
	// TestReady is set once all question inserts have been attempted.
	TestReady TestStatus = "ready"
)

// TopicRef references a topic by identifier. Tests and documents live in a
// separate database file from topics, so the reference is never enforced by
// the storage engine: it may point at a topic that was removed or never
// existed. Callers that need the topic must resolve it against the topic
// store and be prepared for a miss.
type TopicRef string

// Topic is a user-created study topic.
type Topic struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Color          string `json:"color"`
	DocumentsCount int    `json:"documentsCount"`
	TestsCount     int    `json:"testsCount"`
	Description    string `json:"description"`
	UserID         string `json:"userId"`
}

// TopicUpdate is a partial update of a topic. Nil fields are left untouched.
// The fields here are the full allow-list of what a PATCH may change.
type TopicUpdate struct {
	Title          *string
	Color          *string
	Description    *string
	DocumentsCount *int
	TestsCount     *int
}

// Empty reports whether the update would change nothing.
func (u TopicUpdate) Empty() bool {
	return u.Title == nil && u.Color == nil && u.Description == nil &&
		u.DocumentsCount == nil && u.TestsCount == nil
}

// Test is a generated multiple-choice test for a topic.
type Test struct {
	ID int64 `json:"id"`
	// TopicID crosses store boundaries; see TopicRef.
	TopicID       TopicRef   `json:"topicId"`
	CreatedAt     time.Time  `json:"createdAt"`
	Status        TestStatus `json:"status"`
	QuestionCount int        `json:"questionCount"`
}

// Option is one answer choice of a multiple-choice question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a single multiple-choice question belonging to a test.
// CorrectAnswer holds the id of the correct option.
type Question struct {
	ID            int64    `json:"id"`
	TestID        int64    `json:"testId"`
	Text          string   `json:"text"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	// Order is the 1-based presentation position within the test.
	Order int `json:"questionOrder"`
}

// Document is a file uploaded under a topic. The blob itself lives in object
// storage under ObjectKey; this record only carries metadata.
type Document struct {
	ID          int64     `json:"id"`
	TopicID     TopicRef  `json:"topicId"`
	Name        string    `json:"name"`
	ObjectKey   string    `json:"objectKey"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
