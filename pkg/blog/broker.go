package blog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tendant/blog-backend/pkg/blog/urlstrategy"
)

// uploadTicketTTL bounds how long a staging upload URL stays valid.
const uploadTicketTTL = 15 * time.Minute

const maxFileNameLength = 255

// fileNameForbiddenChars are rejected anywhere in an upload file name.
const fileNameForbiddenChars = `\/:*?"<>|`

// allowedImageTypes is the MIME allow-list for staging uploads.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// UploadBroker issues time-boxed write tickets for new media before a post
// exists, and cleans up abandoned staging uploads.
type UploadBroker struct {
	store  MediaStore
	urls   urlstrategy.Strategy
	logger *slog.Logger
}

// NewUploadBroker creates an upload broker over the given media store and
// URL strategy. A nil logger falls back to slog.Default().
func NewUploadBroker(store MediaStore, urls urlstrategy.Strategy, logger *slog.Logger) *UploadBroker {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadBroker{store: store, urls: urls, logger: logger}
}

// RequestUpload validates the file name and content type, then issues a
// staging ticket: a freshly generated staging key, a presigned PUT URL
// scoped to exactly that key and expiring in 15 minutes, and the eventual
// public URL for the key. No object is written until the client performs
// the upload out of band.
func (b *UploadBroker) RequestUpload(ctx context.Context, fileName, contentType string) (*StagingTicket, error) {
	trimmed := strings.TrimSpace(fileName)
	if err := validateFileName(trimmed); err != nil {
		return nil, err
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, &ValidationError{Field: "contentType", Reason: fmt.Sprintf("%q is not an allowed image type", contentType)}
	}

	key := fmt.Sprintf("%s/%s/%s", StagingPrefix, uuid.New(), trimmed)

	uploadURL, err := b.store.PresignPut(ctx, key, contentType, uploadTicketTTL)
	if err != nil {
		return nil, &StorageError{Op: "presign_put", Key: key, Err: err}
	}

	b.logger.Info("issued staging upload ticket", "key", key, "content_type", contentType)

	return &StagingTicket{
		Key:       key,
		UploadURL: uploadURL,
		PublicURL: b.urls.PublicURL(key),
	}, nil
}

// AbandonUpload deletes the staged object at key. Keys outside the staging
// prefix are logged and ignored so the endpoint cannot be used to delete
// permanent media.
func (b *UploadBroker) AbandonUpload(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, StagingPrefix+"/") {
		b.logger.Warn("refusing to delete non-staging key", "key", key)
		return nil
	}
	if err := b.store.Delete(ctx, key); err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func validateFileName(name string) error {
	if name == "" {
		return &ValidationError{Field: "fileName", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(name) > maxFileNameLength {
		return &ValidationError{Field: "fileName", Reason: fmt.Sprintf("must be at most %d characters", maxFileNameLength)}
	}
	if strings.ContainsAny(name, fileNameForbiddenChars) {
		return &ValidationError{Field: "fileName", Reason: fmt.Sprintf("must not contain any of %s", fileNameForbiddenChars)}
	}
	return nil
}
