package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/blog-backend/pkg/blog"
)

// TrackingHandler handles HTTP requests for tracking events
type TrackingHandler struct {
	producer *blog.Producer
	logger   *slog.Logger
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(producer *blog.Producer, logger *slog.Logger) *TrackingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackingHandler{producer: producer, logger: logger}
}

// Routes returns the routes for tracking
func (h *TrackingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.SubmitTracking)

	return r
}

// SubmitTracking validates and enqueues a tracking event. The enqueue is
// awaited before responding so the event cannot be lost to request
// teardown; 202 means the event is durably queued, not yet persisted.
func (h *TrackingHandler) SubmitTracking(w http.ResponseWriter, r *http.Request) {
	var event blog.TrackingEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.producer.Submit(r.Context(), event); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
