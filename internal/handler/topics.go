package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/testforge/internal/model"
	"github.com/avolkov/testforge/internal/store"
)

func (h *Handler) handleListTopics(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "UserId is required")
		return
	}

	topics, err := h.topics.ListTopicsByUser(userID)
	if err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, topics)
}

func (h *Handler) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	var topic model.Topic
	if err := json.NewDecoder(r.Body).Decode(&topic); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if topic.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if topic.UserID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	id, err := h.topics.CreateTopic(topic)
	if err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid topic id")
		return
	}

	topic, err := h.topics.GetTopic(id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Topic not found")
		return
	}
	if err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, topic)
}

// topicPatch mirrors the updatable topic fields. Absent fields stay nil and
// are skipped; unknown fields in the body are ignored rather than applied.
type topicPatch struct {
	Title          *string `json:"title"`
	Color          *string `json:"color"`
	Description    *string `json:"description"`
	DocumentsCount *int    `json:"documentsCount"`
	TestsCount     *int    `json:"testsCount"`
}

// handleUpdateTopic applies a partial update. It reports success even when
// the id matches no row; callers cannot distinguish a no-op from a hit.
func (h *Handler) handleUpdateTopic(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid topic id")
		return
	}

	var patch topicPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := model.TopicUpdate{
		Title:          patch.Title,
		Color:          patch.Color,
		Description:    patch.Description,
		DocumentsCount: patch.DocumentsCount,
		TestsCount:     patch.TestsCount,
	}
	if err := h.topics.UpdateTopic(id, upd); err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Topic updated successfully"})
}
