package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/blog-backend/pkg/blog"
)

func newTestPost() *blog.Post {
	now := time.Now().UTC()
	return &blog.Post{
		ID:        uuid.New(),
		Slug:      "hello-world",
		Title:     "Hello World",
		Author:    "ada",
		Excerpt:   "greetings",
		Content:   "body",
		Tags:      []string{"go"},
		Status:    blog.PostStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetPost(t *testing.T) {
	repo := New()
	ctx := context.Background()

	post := newTestPost()
	require.NoError(t, repo.CreatePost(ctx, post))

	got, err := repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post, got)

	// The stored copy is isolated from later mutation of the argument.
	post.Title = "mutated"
	got, err = repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got.Title)
}

func TestGetPostNotFound(t *testing.T) {
	repo := New()

	_, err := repo.GetPost(context.Background(), uuid.New())
	assert.ErrorIs(t, err, blog.ErrPostNotFound)
}

func TestListPosts(t *testing.T) {
	repo := New()
	ctx := context.Background()

	posts, err := repo.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	require.NoError(t, repo.CreatePost(ctx, newTestPost()))
	require.NoError(t, repo.CreatePost(ctx, newTestPost()))

	posts, err = repo.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestApplyPartialUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("patched fields change, others do not", func(t *testing.T) {
		repo := New()
		post := newTestPost()
		require.NoError(t, repo.CreatePost(ctx, post))

		now := time.Now().UTC()
		updated, err := repo.ApplyPartialUpdate(ctx, post.ID, map[string]any{
			blog.FieldTitle:     "Renamed",
			blog.FieldSlug:      "renamed",
			blog.FieldUpdatedAt: now,
		})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, "renamed", updated.Slug)
		assert.Equal(t, now, updated.UpdatedAt)
		assert.Equal(t, post.Author, updated.Author)
		assert.Equal(t, post.Content, updated.Content)
		assert.Equal(t, post.CreatedAt, updated.CreatedAt)
	})

	t.Run("identifier is never rewritable", func(t *testing.T) {
		repo := New()
		post := newTestPost()
		require.NoError(t, repo.CreatePost(ctx, post))

		updated, err := repo.ApplyPartialUpdate(ctx, post.ID, map[string]any{
			blog.FieldPostID: uuid.New().String(),
			blog.FieldTitle:  "Still Here",
		})
		require.NoError(t, err)
		assert.Equal(t, post.ID, updated.ID)
		assert.Equal(t, "Still Here", updated.Title)
	})

	t.Run("publishedAt patch", func(t *testing.T) {
		repo := New()
		post := newTestPost()
		require.NoError(t, repo.CreatePost(ctx, post))

		publishedAt := time.Now().UTC()
		updated, err := repo.ApplyPartialUpdate(ctx, post.ID, map[string]any{
			blog.FieldStatus:      blog.PostStatusPublished,
			blog.FieldPublishedAt: publishedAt,
		})
		require.NoError(t, err)

		assert.Equal(t, blog.PostStatusPublished, updated.Status)
		require.NotNil(t, updated.PublishedAt)
		assert.Equal(t, publishedAt, *updated.PublishedAt)
	})

	t.Run("unknown post", func(t *testing.T) {
		repo := New()

		_, err := repo.ApplyPartialUpdate(ctx, uuid.New(), map[string]any{
			blog.FieldTitle: "nope",
		})
		assert.ErrorIs(t, err, blog.ErrPostNotFound)
	})

	t.Run("unknown field", func(t *testing.T) {
		repo := New()
		post := newTestPost()
		require.NoError(t, repo.CreatePost(ctx, post))

		_, err := repo.ApplyPartialUpdate(ctx, post.ID, map[string]any{
			"likes": 5,
		})
		assert.Error(t, err)
	})

	t.Run("wrong value type", func(t *testing.T) {
		repo := New()
		post := newTestPost()
		require.NoError(t, repo.CreatePost(ctx, post))

		_, err := repo.ApplyPartialUpdate(ctx, post.ID, map[string]any{
			blog.FieldTitle: 42,
		})
		assert.Error(t, err)
	})
}

func TestDeletePost(t *testing.T) {
	repo := New()
	ctx := context.Background()

	post := newTestPost()
	require.NoError(t, repo.CreatePost(ctx, post))
	require.NoError(t, repo.DeletePost(ctx, post.ID))

	_, err := repo.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, blog.ErrPostNotFound)

	// Deleting an absent post is a no-op.
	assert.NoError(t, repo.DeletePost(ctx, post.ID))
}

func TestSaveTrackingEvent(t *testing.T) {
	repo := New()
	ctx := context.Background()

	event := &blog.TrackingEvent{
		SessionID: "s1",
		EventName: blog.EventScrollDepth,
		Timestamp: "2026-08-31T10:00:00.000Z",
		Data:      map[string]any{"depth": 75},
	}
	require.NoError(t, repo.SaveTrackingEvent(ctx, event))

	events := repo.TrackingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "s1", events[0].SessionID)
	assert.Equal(t, blog.EventScrollDepth, events[0].EventName)
}
