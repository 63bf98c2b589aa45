package blog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/blog-backend/pkg/blog"
	memoryrepo "github.com/tendant/blog-backend/pkg/blog/repo/memory"
	memorystorage "github.com/tendant/blog-backend/pkg/blog/storage/memory"
	"github.com/tendant/blog-backend/pkg/blog/urlstrategy"
)

func TestServiceCreation(t *testing.T) {
	repo := memoryrepo.New()
	promoter := blog.NewPromoter(memorystorage.New(), urlstrategy.NewCDN("https://cdn"), nil)

	tests := []struct {
		name        string
		options     []blog.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []blog.Option{},
			expectError: true,
		},
		{
			name: "repository alone should fail",
			options: []blog.Option{
				blog.WithRepository(repo),
			},
			expectError: true,
		},
		{
			name: "repository and promoter should succeed",
			options: []blog.Option{
				blog.WithRepository(repo),
				blog.WithPromoter(promoter),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := blog.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) (blog.Service, *memorystorage.Store) {
	t.Helper()

	repo := memoryrepo.New()
	store := memorystorage.New()
	promoter := blog.NewPromoter(store, urlstrategy.NewCDN("https://cdn"), nil)

	svc, err := blog.New(
		blog.WithRepository(repo),
		blog.WithPromoter(promoter),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc, store
}

func TestCreatePost(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, blog.CreatePostRequest{
			Title:   "My First Post!",
			Author:  "ada",
			Excerpt: "a beginning",
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, post.ID)
		assert.Equal(t, "my-first-post", post.Slug)
		assert.Equal(t, blog.PostStatusDraft, post.Status)
		assert.Nil(t, post.PublishedAt)
		assert.Equal(t, 0, post.LikeCount)
		assert.Equal(t, 0, post.ViewCount)
		assert.False(t, post.HasUnpublishedChanges)
		assert.Equal(t, post.CreatedAt, post.UpdatedAt)
		assert.NotNil(t, post.Tags)
		assert.WithinDuration(t, time.Now().UTC(), post.CreatedAt, time.Minute)
	})

	t.Run("publishing on create sets publishedAt", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, blog.CreatePostRequest{
			Title:   "Launch Day",
			Author:  "ada",
			Excerpt: "we shipped",
			Status:  blog.PostStatusPublished,
		})
		require.NoError(t, err)

		require.NotNil(t, post.PublishedAt)
		assert.Equal(t, post.CreatedAt, *post.PublishedAt)
	})

	t.Run("staged media is promoted before the first write", func(t *testing.T) {
		store.Put("staging/abc/cat.png", "image/png", []byte("img"))

		post, err := svc.CreatePost(ctx, blog.CreatePostRequest{
			Title:   "Cats",
			Author:  "ada",
			Excerpt: "with pictures",
			Content: "![cat](https://cdn/staging/abc/cat.png)",
		})
		require.NoError(t, err)

		assert.NotContains(t, post.Content, "staging/")
		assert.Contains(t, post.Content, "https://cdn/blogs/"+post.ID.String()+"/cat.png")

		stored, err := svc.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Content, stored.Content)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  blog.CreatePostRequest
		}{
			{
				name: "missing title",
				req:  blog.CreatePostRequest{Author: "ada", Excerpt: "x"},
			},
			{
				name: "missing author",
				req:  blog.CreatePostRequest{Title: "t", Excerpt: "x"},
			},
			{
				name: "missing excerpt",
				req:  blog.CreatePostRequest{Title: "t", Author: "ada"},
			},
			{
				name: "unknown status",
				req:  blog.CreatePostRequest{Title: "t", Author: "ada", Excerpt: "x", Status: "limbo"},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				post, err := svc.CreatePost(ctx, tt.req)
				assert.Nil(t, post)
				assert.True(t, blog.IsValidation(err), "expected validation error, got %v", err)
			})
		}
	})
}

func TestUpdatePost(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	create := func(t *testing.T, req blog.CreatePostRequest) *blog.Post {
		t.Helper()
		post, err := svc.CreatePost(ctx, req)
		require.NoError(t, err)
		return post
	}

	t.Run("title-only patch leaves other fields untouched", func(t *testing.T) {
		post := create(t, blog.CreatePostRequest{
			Title:   "Original Title",
			Author:  "ada",
			Excerpt: "unchanged excerpt",
			Content: "unchanged content",
			Tags:    []string{"go", "blogs"},
		})

		newTitle := "New"
		updated, err := svc.UpdatePost(ctx, post.ID, blog.UpdatePostRequest{Title: &newTitle})
		require.NoError(t, err)

		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "new", updated.Slug)
		assert.False(t, updated.UpdatedAt.Before(post.UpdatedAt))

		assert.Equal(t, post.ID, updated.ID)
		assert.Equal(t, post.Author, updated.Author)
		assert.Equal(t, post.Excerpt, updated.Excerpt)
		assert.Equal(t, post.Content, updated.Content)
		assert.Equal(t, post.Tags, updated.Tags)
		assert.Equal(t, post.Status, updated.Status)
		assert.Equal(t, post.CreatedAt, updated.CreatedAt)
	})

	t.Run("first publish sets publishedAt once", func(t *testing.T) {
		post := create(t, blog.CreatePostRequest{Title: "Lifecycle", Author: "ada", Excerpt: "x"})

		published := blog.PostStatusPublished
		first, err := svc.UpdatePost(ctx, post.ID, blog.UpdatePostRequest{Status: &published})
		require.NoError(t, err)
		require.NotNil(t, first.PublishedAt)
		firstPublished := *first.PublishedAt

		// Publish again: the date must not move.
		again, err := svc.UpdatePost(ctx, post.ID, blog.UpdatePostRequest{Status: &published})
		require.NoError(t, err)
		require.NotNil(t, again.PublishedAt)
		assert.Equal(t, firstPublished, *again.PublishedAt)

		// Archive, then republish: still the original date.
		archived := blog.PostStatusArchived
		_, err = svc.UpdatePost(ctx, post.ID, blog.UpdatePostRequest{Status: &archived})
		require.NoError(t, err)

		republished, err := svc.UpdatePost(ctx, post.ID, blog.UpdatePostRequest{Status: &published})
		require.NoError(t, err)
		require.NotNil(t, republished.PublishedAt)
		assert.Equal(t, firstPublished, *republished.PublishedAt)
	})

	t.Run("content patch is promoted with the post id", func(t *testing.T) {
		post := create(t, blog.CreatePostRequest{Title: "Media", Author: "ada", Excerpt: "x"})

		store.Put("staging/xyz/dog.png", "image/png", []byte("img"))

		content := "![dog](https://cdn/staging/xyz/dog.png)"
		updated, err := svc.UpdatePost(ctx, post.ID, blog.UpdatePostRequest{Content: &content})
		require.NoError(t, err)

		assert.Equal(t, "![dog](https://cdn/blogs/"+post.ID.String()+"/dog.png)", updated.Content)
	})

	t.Run("unknown id surfaces not found", func(t *testing.T) {
		title := "nope"
		_, err := svc.UpdatePost(ctx, uuid.New(), blog.UpdatePostRequest{Title: &title})
		assert.ErrorIs(t, err, blog.ErrPostNotFound)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		post := create(t, blog.CreatePostRequest{Title: "Status", Author: "ada", Excerpt: "x"})

		bogus := blog.PostStatus("limbo")
		_, err := svc.UpdatePost(ctx, post.ID, blog.UpdatePostRequest{Status: &bogus})
		assert.True(t, blog.IsValidation(err), "expected validation error, got %v", err)
	})
}

func TestDeletePost(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, blog.CreatePostRequest{Title: "Ephemeral", Author: "ada", Excerpt: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, post.ID))

	_, err = svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, blog.ErrPostNotFound)

	err = svc.DeletePost(ctx, post.ID)
	assert.ErrorIs(t, err, blog.ErrPostNotFound)
}

func TestListPosts(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three"} {
		_, err := svc.CreatePost(ctx, blog.CreatePostRequest{Title: title, Author: "ada", Excerpt: "x"})
		require.NoError(t, err)
	}

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}
