package blog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/tendant/blog-backend/pkg/blog/urlstrategy"
)

// Promoter moves media objects referenced by post content from the staging
// area to a permanent, post-scoped location and rewrites the references.
type Promoter struct {
	store  MediaStore
	urls   urlstrategy.Strategy
	logger *slog.Logger
}

// NewPromoter creates a media promoter over the given media store and URL
// strategy. A nil logger falls back to slog.Default().
func NewPromoter(store MediaStore, urls urlstrategy.Strategy, logger *slog.Logger) *Promoter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Promoter{store: store, urls: urls, logger: logger}
}

// Finalize promotes every staging reference in content for the post with
// the given id and returns the rewritten content.
//
// Content with no staging references is returned unchanged without any
// object-store calls. Each distinct reference is processed in extraction
// order: the object is copied to blogs/<postID>/<fileName> (copy precedes
// delete, always), the staged copy is deleted, and every literal occurrence
// of the staged URL is replaced with the permanent public URL. A failure on
// one reference leaves that occurrence untouched and is logged; the
// remaining references are still processed. Partial success is the designed
// behavior.
//
// Finalize is idempotent with respect to already-promoted references:
// rewritten URLs no longer match the staging pattern and are skipped on
// subsequent calls.
func (p *Promoter) Finalize(ctx context.Context, content, postID string) string {
	refs := ExtractStagingReferences(content)
	if len(refs) == 0 {
		return content
	}

	updated := content
	for _, ref := range dedupe(refs) {
		sourceKey, fileName, err := parseStagingReference(ref)
		if err != nil {
			p.logger.Error("skipping unpromotable media reference", "ref", ref, "post_id", postID, "error", err)
			continue
		}

		destKey := fmt.Sprintf("%s/%s/%s", PostMediaPrefix, postID, fileName)

		if err := p.store.Copy(ctx, sourceKey, destKey); err != nil {
			p.logger.Error("failed to promote media object", "source", sourceKey, "dest", destKey, "post_id", postID, "error", err)
			continue
		}
		if err := p.store.Delete(ctx, sourceKey); err != nil {
			// The reference stays on the staged URL so the next save
			// retries the whole copy/delete pair.
			p.logger.Error("failed to delete staged object after copy", "source", sourceKey, "post_id", postID, "error", err)
			continue
		}

		updated = strings.ReplaceAll(updated, ref, p.urls.PublicURL(destKey))
	}

	return updated
}

// parseStagingReference splits a staging URL into its object key and file
// name. References whose path does not start with the staging prefix fail
// here, before any object-store call.
func parseStagingReference(ref string) (sourceKey, fileName string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("malformed reference: %w", err)
	}

	sourceKey = strings.TrimPrefix(u.Path, "/")
	if !strings.HasPrefix(sourceKey, StagingPrefix+"/") {
		return "", "", fmt.Errorf("reference %q is not staging-prefixed", ref)
	}

	segments := strings.Split(sourceKey, "/")
	fileName = segments[len(segments)-1]
	if fileName == "" {
		return "", "", fmt.Errorf("reference %q has no file name", ref)
	}

	return sourceKey, fileName, nil
}

// dedupe preserves first-appearance order. Duplicate references share one
// copy/delete pair; ReplaceAll already rewrites every occurrence.
func dedupe(refs []string) []string {
	seen := make(map[string]struct{}, len(refs))
	out := refs[:0:0]
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}
