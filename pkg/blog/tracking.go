package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Producer validates tracking events and enqueues them for asynchronous
// persistence. Submit is deliberately synchronous: in a short-lived
// request-execution environment an unawaited enqueue can be dropped when
// the environment is torn down right after the response, so the triggering
// request must not complete before the event is durably enqueued.
type Producer struct {
	queue  TrackingQueue
	logger *slog.Logger
}

// NewProducer creates a tracking producer over the given queue. A nil
// logger falls back to slog.Default().
func NewProducer(queue TrackingQueue, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Producer{queue: queue, logger: logger}
}

// Submit validates event, serializes it and sends it to the queue,
// returning only once the queue has accepted the payload. Validation
// failures are rejected before any side effect.
func (p *Producer) Submit(ctx context.Context, event TrackingEvent) error {
	if err := validateTrackingEvent(event); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize tracking event: %w", err)
	}

	if err := p.queue.Send(ctx, payload); err != nil {
		return fmt.Errorf("failed to enqueue tracking event: %w", err)
	}

	p.logger.Debug("enqueued tracking event", "event_name", event.EventName, "session_id", event.SessionID)

	return nil
}

func validateTrackingEvent(event TrackingEvent) error {
	if event.SessionID == "" {
		return &ValidationError{Field: "sessionId", Reason: "must not be empty"}
	}
	if !event.EventName.Valid() {
		return &ValidationError{Field: "eventName", Reason: fmt.Sprintf("unknown event name %q", event.EventName)}
	}
	if event.Timestamp == "" {
		return &ValidationError{Field: "timestamp", Reason: "must not be empty"}
	}
	if event.Data == nil {
		return &ValidationError{Field: "data", Reason: "must be an object"}
	}
	return nil
}

// Consumer persists batches of tracking events delivered by the queue.
type Consumer struct {
	store  TrackingStore
	logger *slog.Logger
}

// NewConsumer creates a tracking consumer over the given store. A nil
// logger falls back to slog.Default().
func NewConsumer(store TrackingStore, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{store: store, logger: logger}
}

// ProcessBatch decodes and persists each delivered record independently: a
// failure on one record is logged and does not prevent attempts on the
// rest. If any record failed, ProcessBatch returns an error so the queue's
// redelivery policy takes over; duplicates on redelivery are accepted under
// at-least-once semantics.
func (c *Consumer) ProcessBatch(ctx context.Context, records []QueueRecord) error {
	var failed int

	for _, record := range records {
		var event TrackingEvent
		if err := json.Unmarshal(record.Body, &event); err != nil {
			c.logger.Error("failed to decode tracking record", "message_id", record.MessageID, "error", err)
			failed++
			continue
		}

		if err := c.store.SaveTrackingEvent(ctx, &event); err != nil {
			c.logger.Error("failed to persist tracking record", "message_id", record.MessageID, "error", err)
			failed++
			continue
		}
	}

	if failed > 0 {
		return fmt.Errorf("tracking batch: %d of %d records failed", failed, len(records))
	}

	return nil
}
