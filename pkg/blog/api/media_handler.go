package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/blog-backend/pkg/blog"
)

// UploadURLRequest is the request body for requesting a staging upload URL
type UploadURLRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// MediaHandler handles HTTP requests for media staging uploads
type MediaHandler struct {
	broker *blog.UploadBroker
	logger *slog.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(broker *blog.UploadBroker, logger *slog.Logger) *MediaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaHandler{broker: broker, logger: logger}
}

// Routes returns the routes for media
func (h *MediaHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload-url", h.RequestUploadURL)
	r.Delete("/staging", h.DeleteStagingObject)

	return r
}

// RequestUploadURL issues a staging upload ticket
func (h *MediaHandler) RequestUploadURL(w http.ResponseWriter, r *http.Request) {
	var req UploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("generating upload URL", "file_name", req.FileName)

	ticket, err := h.broker.RequestUpload(r.Context(), req.FileName, req.ContentType)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ticket)
}

// DeleteStagingObject removes an abandoned staging upload
func (h *MediaHandler) DeleteStagingObject(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.logger.Info("deleting staging object", "key", key)

	if err := h.broker.AbandonUpload(r.Context(), key); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
