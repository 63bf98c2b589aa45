package blog

import (
	"context"

	"github.com/google/uuid"
)

// Service is the publish workflow: the only path through which posts are
// created, mutated and destroyed.
type Service interface {
	// CreatePost generates the post id and slug, promotes any staged media
	// referenced by the content before the first write, and inserts the
	// post. PublishedAt is set iff the initial status is published.
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// GetPost returns the post for id, or ErrPostNotFound.
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)

	// ListPosts returns all posts, unordered.
	ListPosts(ctx context.Context) ([]*Post, error)

	// UpdatePost applies a partial update built from only the fields
	// supplied in req. A supplied title recomputes the slug; a transition
	// to published sets PublishedAt only if it was never set; supplied
	// content is promoted before the write. UpdatedAt is always refreshed.
	UpdatePost(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*Post, error)

	// DeletePost verifies existence and deletes the post. Promoted media
	// objects are left in place; cascading media deletion is a non-goal.
	DeletePost(ctx context.Context, id uuid.UUID) error
}
