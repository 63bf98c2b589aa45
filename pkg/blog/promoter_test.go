package blog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/blog-backend/pkg/blog"
	memorystorage "github.com/tendant/blog-backend/pkg/blog/storage/memory"
	"github.com/tendant/blog-backend/pkg/blog/urlstrategy"
)

func setupPromoter(t *testing.T) (*blog.Promoter, *memorystorage.Store) {
	t.Helper()

	store := memorystorage.New()
	promoter := blog.NewPromoter(store, urlstrategy.NewCDN("https://cdn"), nil)

	return promoter, store
}

func TestFinalizeNoReferences(t *testing.T) {
	promoter, store := setupPromoter(t)
	ctx := context.Background()

	content := "no staged media here, just https://cdn/blogs/p1/old.png"

	result := promoter.Finalize(ctx, content, "p1")

	assert.Equal(t, content, result)
	assert.Equal(t, 0, store.Calls(), "no object-store calls for content without staging references")
}

func TestFinalizePromotesReference(t *testing.T) {
	promoter, store := setupPromoter(t)
	ctx := context.Background()

	store.Put("staging/abc/cat.png", "image/png", []byte("img"))

	result := promoter.Finalize(ctx, "![cat](https://cdn/staging/abc/cat.png)", "p1")

	assert.Equal(t, "![cat](https://cdn/blogs/p1/cat.png)", result)
	assert.NotContains(t, result, "staging/")
	assert.True(t, store.Exists("blogs/p1/cat.png"), "object should be copied to the permanent location")
	assert.False(t, store.Exists("staging/abc/cat.png"), "staged object should be deleted after copy")
}

func TestFinalizeRewritesEveryOccurrence(t *testing.T) {
	promoter, store := setupPromoter(t)
	ctx := context.Background()

	store.Put("staging/abc/cat.png", "image/png", []byte("img"))

	content := "first https://cdn/staging/abc/cat.png second https://cdn/staging/abc/cat.png"
	result := promoter.Finalize(ctx, content, "p1")

	assert.Equal(t, "first https://cdn/blogs/p1/cat.png second https://cdn/blogs/p1/cat.png", result)
}

func TestFinalizePartialFailure(t *testing.T) {
	promoter, store := setupPromoter(t)
	ctx := context.Background()

	// Only the second reference has an uploaded object behind it.
	store.Put("staging/two/ok.png", "image/png", []byte("img"))

	content := "a https://cdn/staging/one/missing.png b https://cdn/staging/two/ok.png"
	result := promoter.Finalize(ctx, content, "p9")

	assert.Contains(t, result, "https://cdn/staging/one/missing.png", "failed reference must be left untouched")
	assert.Contains(t, result, "https://cdn/blogs/p9/ok.png", "healthy reference must still be promoted")
	assert.True(t, store.Exists("blogs/p9/ok.png"))
}

// undeletableStore fails every Delete so the copy-then-delete pair cannot
// complete.
type undeletableStore struct {
	*memorystorage.Store
}

func (s *undeletableStore) Delete(ctx context.Context, key string) error {
	return errors.New("delete refused")
}

func TestFinalizeDeleteFailureLeavesReference(t *testing.T) {
	store := memorystorage.New()
	promoter := blog.NewPromoter(&undeletableStore{Store: store}, urlstrategy.NewCDN("https://cdn"), nil)
	ctx := context.Background()

	store.Put("staging/abc/cat.png", "image/png", []byte("img"))

	content := "![cat](https://cdn/staging/abc/cat.png)"
	result := promoter.Finalize(ctx, content, "p1")

	assert.Equal(t, content, result, "delete failure must leave the reference on the staged URL")
	assert.True(t, store.Exists("staging/abc/cat.png"), "staged object survives for a later retry")
}

func TestFinalizeIdempotent(t *testing.T) {
	promoter, store := setupPromoter(t)
	ctx := context.Background()

	store.Put("staging/abc/cat.png", "image/png", []byte("img"))

	once := promoter.Finalize(ctx, "https://cdn/staging/abc/cat.png", "p1")
	require.Equal(t, "https://cdn/blogs/p1/cat.png", once)

	callsAfterFirst := store.Calls()
	twice := promoter.Finalize(ctx, once, "p1")

	assert.Equal(t, once, twice)
	assert.Equal(t, callsAfterFirst, store.Calls(), "promoted content must not trigger further store calls")
}
