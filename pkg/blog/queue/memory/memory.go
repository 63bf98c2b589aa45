// Package memory provides an in-memory blog.TrackingQueue, used in tests
// and local development. Payloads are held until drained; there is no
// redelivery.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tendant/blog-backend/pkg/blog"
)

// Queue implements blog.TrackingQueue using an in-memory slice.
type Queue struct {
	mu       sync.Mutex
	messages []blog.QueueRecord
}

// New creates a new in-memory queue
func New() *Queue {
	return &Queue{}
}

// Send appends a payload to the queue.
func (q *Queue) Send(ctx context.Context, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := uuid.New().String()
	q.messages = append(q.messages, blog.QueueRecord{
		MessageID: id,
		Handle:    fmt.Sprintf("handle-%s", id),
		Body:      append([]byte(nil), payload...),
	})

	return nil
}

// Drain removes and returns all queued records.
func (q *Queue) Drain() []blog.QueueRecord {
	q.mu.Lock()
	defer q.mu.Unlock()

	records := q.messages
	q.messages = nil

	return records
}

// Len returns the number of queued records.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.messages)
}
