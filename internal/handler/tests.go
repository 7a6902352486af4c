package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/testforge/internal/model"
	"github.com/avolkov/testforge/internal/monitoring"
	"github.com/avolkov/testforge/internal/store"
)

type generateRequest struct {
	TopicID          model.TopicRef `json:"topicId"`
	TopicTitle       string         `json:"topicTitle"`
	TopicDescription string         `json:"topicDescription"`
}

// handleGenerateTest runs the full generation pipeline: prompt the model,
// parse the structured reply, persist header + questions, finalize. Question
// inserts are a batch with per-item outcomes; a partial batch is logged and
// the test still finalizes as ready.
func (h *Handler) handleGenerateTest(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TopicTitle == "" {
		respondError(w, http.StatusBadRequest, "topicTitle is required")
		return
	}

	// The topic lives in a different store; the reference may be stale.
	// Validate lazily and proceed either way.
	if topicID, err := strconv.ParseInt(string(req.TopicID), 10, 64); err == nil {
		if _, err := h.topics.GetTopic(topicID); errors.Is(err, store.ErrNotFound) {
			slog.Warn("generating test for unknown topic", "topicId", req.TopicID)
		}
	}

	start := time.Now()
	generated, err := h.gen.Generate(r.Context(), req.TopicTitle, req.TopicDescription)
	monitoring.ObserveGeneration(time.Since(start))
	if err != nil {
		slog.Error("test generation failed", "topicId", req.TopicID, "error", err)
		respondErrorDetails(w, http.StatusInternalServerError, "Failed to generate test", err.Error())
		return
	}

	testID, err := h.tests.CreateTest(req.TopicID, len(generated))
	if err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "Failed to generate test", err.Error())
		return
	}

	questions := make([]model.Question, 0, len(generated))
	for _, g := range generated {
		questions = append(questions, model.Question{
			Text:          g.Text,
			Options:       g.Options,
			CorrectAnswer: g.CorrectAnswer,
			Explanation:   g.Explanation,
		})
	}
	batch := h.tests.AddQuestions(testID, questions)
	for _, f := range batch.Failures {
		slog.Error("question insert failed", "testId", testID, "position", f.Position, "error", f.Err)
	}
	if batch.Partial() {
		slog.Warn("test persisted partially",
			"testId", testID, "inserted", batch.Inserted, "declared", len(questions))
	}

	if err := h.tests.FinalizeTest(testID); err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "Failed to generate test", err.Error())
		return
	}

	if topicID, err := strconv.ParseInt(string(req.TopicID), 10, 64); err == nil {
		if err := h.topics.IncrementTestsCount(topicID); err != nil {
			slog.Error("increment tests count", "topicId", req.TopicID, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"testId": testID,
		"status": model.TestReady,
	})
}

func (h *Handler) handleGetTest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid test id")
		return
	}

	test, questions, err := h.tests.GetTest(id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Test not found")
		return
	}
	if err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"test":      test,
		"questions": questions,
	})
}

func (h *Handler) handleListTopicTests(w http.ResponseWriter, r *http.Request) {
	topicID := model.TopicRef(chi.URLParam(r, "id"))
	tests, err := h.tests.ListTestsByTopic(topicID)
	if err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, tests)
}
