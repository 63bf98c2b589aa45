package blog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PostRepository defines the document-store capability consumed by the
// publish workflow.
type PostRepository interface {
	// CreatePost unconditionally inserts a post. The caller guarantees ID
	// uniqueness.
	CreatePost(ctx context.Context, post *Post) error

	// GetPost returns the post for id, or ErrPostNotFound.
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)

	// ListPosts returns all posts. No ordering guarantee and no pagination;
	// the post table is assumed to stay small.
	ListPosts(ctx context.Context) ([]*Post, error)

	// ApplyPartialUpdate writes only the fields present in patch, keyed by
	// the Field* constants. Fields absent from patch are left untouched in
	// storage; the identifier field is skipped even if present. Returns the
	// post's full state after the patch, or ErrPostNotFound.
	ApplyPartialUpdate(ctx context.Context, id uuid.UUID, patch map[string]any) (*Post, error)

	// DeletePost removes the post for id.
	DeletePost(ctx context.Context, id uuid.UUID) error
}

// MediaStore defines the object-store capability consumed by the upload
// broker and the media promoter.
type MediaStore interface {
	// PresignPut returns a write-capable URL scoped to exactly key,
	// expiring after expires.
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)

	// Copy copies the object at sourceKey to destKey, preserving metadata.
	Copy(ctx context.Context, sourceKey, destKey string) error

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}

// TrackingQueue defines the durable at-least-once queue capability consumed
// by the tracking producer.
type TrackingQueue interface {
	// Send enqueues a serialized tracking event. It must not return before
	// the payload is durably accepted by the queue.
	Send(ctx context.Context, payload []byte) error
}

// TrackingStore persists tracking events delivered by the queue consumer.
type TrackingStore interface {
	SaveTrackingEvent(ctx context.Context, event *TrackingEvent) error
}
