// Package memory provides in-memory implementations of the blog persistence
// capabilities, used in tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/blog-backend/pkg/blog"
)

// Repository implements blog.PostRepository and blog.TrackingStore using
// in-memory maps.
type Repository struct {
	mu     sync.RWMutex
	posts  map[uuid.UUID]*blog.Post
	events []*blog.TrackingEvent
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		posts: make(map[uuid.UUID]*blog.Post),
	}
}

func (r *Repository) CreatePost(ctx context.Context, post *blog.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	postCopy := clonePost(post)
	r.posts[post.ID] = postCopy

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, blog.ErrPostNotFound
	}

	return clonePost(post), nil
}

func (r *Repository) ListPosts(ctx context.Context) ([]*blog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]*blog.Post, 0, len(r.posts))
	for _, post := range r.posts {
		posts = append(posts, clonePost(post))
	}

	return posts, nil
}

func (r *Repository) ApplyPartialUpdate(ctx context.Context, id uuid.UUID, patch map[string]any) (*blog.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, blog.ErrPostNotFound
	}

	updated := clonePost(post)
	for field, value := range patch {
		if field == blog.FieldPostID {
			// The identifier is never rewritable.
			continue
		}
		if err := applyField(updated, field, value); err != nil {
			return nil, err
		}
	}

	r.posts[id] = updated

	return clonePost(updated), nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)

	return nil
}

func (r *Repository) SaveTrackingEvent(ctx context.Context, event *blog.TrackingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	eventCopy := *event
	r.events = append(r.events, &eventCopy)

	return nil
}

// TrackingEvents returns a snapshot of all persisted tracking events.
func (r *Repository) TrackingEvents() []*blog.TrackingEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*blog.TrackingEvent, len(r.events))
	copy(events, r.events)

	return events
}

func applyField(post *blog.Post, field string, value any) error {
	switch field {
	case blog.FieldSlug:
		return assign(&post.Slug, field, value)
	case blog.FieldTitle:
		return assign(&post.Title, field, value)
	case blog.FieldAuthor:
		return assign(&post.Author, field, value)
	case blog.FieldExcerpt:
		return assign(&post.Excerpt, field, value)
	case blog.FieldContent:
		return assign(&post.Content, field, value)
	case blog.FieldTags:
		return assign(&post.Tags, field, value)
	case blog.FieldStatus:
		return assign(&post.Status, field, value)
	case blog.FieldCoverImage:
		return assign(&post.CoverImage, field, value)
	case blog.FieldUpdatedAt:
		return assign(&post.UpdatedAt, field, value)
	case blog.FieldPublishedAt:
		t, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("unexpected value type %T for field %s", value, field)
		}
		post.PublishedAt = &t
		return nil
	case blog.FieldLastBuildID:
		return assign(&post.LastBuildID, field, value)
	case blog.FieldHasUnpublishedChanges:
		return assign(&post.HasUnpublishedChanges, field, value)
	default:
		return fmt.Errorf("unknown patch field %s", field)
	}
}

func assign[T any](dst *T, field string, value any) error {
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("unexpected value type %T for field %s", value, field)
	}
	*dst = v
	return nil
}

func clonePost(post *blog.Post) *blog.Post {
	postCopy := *post
	if post.Tags != nil {
		postCopy.Tags = append([]string(nil), post.Tags...)
	}
	if post.PublishedAt != nil {
		t := *post.PublishedAt
		postCopy.PublishedAt = &t
	}
	return &postCopy
}
