package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository PostRepository
	promoter   *Promoter
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the post repository for the service
func WithRepository(repo PostRepository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithPromoter sets the media promoter for the service
func WithPromoter(promoter *Promoter) Option {
	return func(s *service) {
		s.promoter = promoter
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new publish workflow service with the given options. A
// repository and a promoter are required: posts are never persisted with
// unpromoted staging references in their content.
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.promoter == nil {
		return nil, fmt.Errorf("promoter is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = PostStatusDraft
	}

	id := uuid.New()
	now := time.Now().UTC()

	post := &Post{
		ID:         id,
		Slug:       Slugify(req.Title),
		Title:      req.Title,
		Author:     req.Author,
		Excerpt:    req.Excerpt,
		Content:    s.promoter.Finalize(ctx, req.Content, id.String()),
		Tags:       req.Tags,
		Status:     status,
		CoverImage: req.CoverImage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if status == PostStatusPublished {
		post.PublishedAt = &now
	}

	if err := s.repository.CreatePost(ctx, post); err != nil {
		return nil, &PostError{PostID: id, Op: "create", Err: err}
	}

	s.logger.Info("created post", "post_id", id, "slug", post.Slug, "status", post.Status)

	return post, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repository.GetPost(ctx, id)
}

func (s *service) ListPosts(ctx context.Context) ([]*Post, error) {
	return s.repository.ListPosts(ctx)
}

func (s *service) UpdatePost(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*Post, error) {
	// Not-found surfaces here, before any patch is built.
	existing, err := s.repository.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	patch := map[string]any{
		FieldUpdatedAt: now,
	}

	if req.Title != nil {
		patch[FieldTitle] = *req.Title
		patch[FieldSlug] = Slugify(*req.Title)
	}
	if req.Author != nil {
		patch[FieldAuthor] = *req.Author
	}
	if req.Excerpt != nil {
		patch[FieldExcerpt] = *req.Excerpt
	}
	if req.Tags != nil {
		patch[FieldTags] = *req.Tags
	}
	if req.CoverImage != nil {
		patch[FieldCoverImage] = *req.CoverImage
	}
	if req.HasUnpublishedChanges != nil {
		patch[FieldHasUnpublishedChanges] = *req.HasUnpublishedChanges
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", *req.Status)}
		}
		patch[FieldStatus] = *req.Status
		// First-publish only: republishing an archived post keeps the
		// original date.
		if *req.Status == PostStatusPublished && existing.PublishedAt == nil {
			patch[FieldPublishedAt] = now
		}
	}
	if req.Content != nil {
		patch[FieldContent] = s.promoter.Finalize(ctx, *req.Content, id.String())
	}

	updated, err := s.repository.ApplyPartialUpdate(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, err
		}
		return nil, &PostError{PostID: id, Op: "update", Err: err}
	}

	return updated, nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repository.GetPost(ctx, id); err != nil {
		return err
	}

	if err := s.repository.DeletePost(ctx, id); err != nil {
		return &PostError{PostID: id, Op: "delete", Err: err}
	}

	s.logger.Info("deleted post", "post_id", id)

	return nil
}

func validateCreate(req CreatePostRequest) error {
	if req.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if req.Author == "" {
		return &ValidationError{Field: "author", Reason: "must not be empty"}
	}
	if req.Excerpt == "" {
		return &ValidationError{Field: "excerpt", Reason: "must not be empty"}
	}
	if req.Status != "" && !req.Status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", req.Status)}
	}
	return nil
}
