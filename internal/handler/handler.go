package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/testforge/internal/docstore"
	"github.com/avolkov/testforge/internal/store"
	"github.com/avolkov/testforge/internal/testgen"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	topics *store.TopicStore
	tests  *store.TestStore
	gen    *testgen.Service
	docs   docstore.Storage
}

// New creates a new Handler.
func New(topics *store.TopicStore, tests *store.TestStore, gen *testgen.Service, docs docstore.Storage) *Handler {
	return &Handler{topics: topics, tests: tests, gen: gen, docs: docs}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-test", h.handleGenerateTest)
		r.Get("/tests/{id}", h.handleGetTest)
		r.Route("/topics", func(r chi.Router) {
			r.Get("/", h.handleListTopics)
			r.Post("/", h.handleCreateTopic)
			r.Get("/{id}", h.handleGetTopic)
			r.Patch("/{id}", h.handleUpdateTopic)
			r.Get("/{id}/tests", h.handleListTopicTests)
			r.Get("/{id}/documents", h.handleListDocuments)
			r.Post("/{id}/documents", h.handleUploadDocument)
		})
	})
	r.Get("/healthz", h.handleHealthz)
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, apiError{Error: msg})
}

func respondErrorDetails(w http.ResponseWriter, status int, msg, details string) {
	respondJSON(w, status, apiError{Error: msg, Details: details})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	if err := h.topics.Ping(); err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "topic store unavailable", err.Error())
		return
	}
	if err := h.tests.Ping(); err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "test store unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
