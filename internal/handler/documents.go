package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avolkov/testforge/internal/model"
)

const maxUploadSize = 32 << 20

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	topicID := model.TopicRef(chi.URLParam(r, "id"))
	docs, err := h.topics.ListDocumentsByTopic(topicID)
	if err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// handleUploadDocument accepts a multipart upload, writes the blob to object
// storage under a fresh key, records the document, and bumps the topic's
// document counter.
func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	topicRef := model.TopicRef(chi.URLParam(r, "id"))

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	key := uuid.NewString() + filepath.Ext(header.Filename)
	if err := h.docs.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		respondErrorDetails(w, http.StatusInternalServerError, "Failed to store document", err.Error())
		return
	}

	doc := model.Document{
		TopicID:     topicRef,
		Name:        header.Filename,
		ObjectKey:   key,
		ContentType: contentType,
		Size:        header.Size,
		UploadedAt:  time.Now().UTC(),
	}
	id, err := h.topics.AddDocument(doc)
	if err != nil {
		// The blob is already stored; drop it rather than leave an orphan.
		if derr := h.docs.Delete(r.Context(), key); derr != nil {
			slog.Error("delete orphaned blob", "key", key, "error", derr)
		}
		respondErrorDetails(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	doc.ID = id

	if topicID, perr := strconv.ParseInt(string(topicRef), 10, 64); perr == nil {
		if err := h.topics.IncrementDocumentsCount(topicID); err != nil {
			slog.Error("increment documents count", "topicId", topicRef, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, doc)
}
