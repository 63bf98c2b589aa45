// Package postgres implements blog.PostRepository and blog.TrackingStore on
// PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE posts (
//	    id UUID PRIMARY KEY,
//	    slug TEXT NOT NULL,
//	    title TEXT NOT NULL,
//	    author TEXT NOT NULL,
//	    excerpt TEXT NOT NULL,
//	    content TEXT NOT NULL DEFAULT '',
//	    tags TEXT[] NOT NULL DEFAULT '{}',
//	    status TEXT NOT NULL,
//	    cover_image TEXT NOT NULL DEFAULT '',
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL,
//	    published_at TIMESTAMPTZ,
//	    like_count INT NOT NULL DEFAULT 0,
//	    view_count INT NOT NULL DEFAULT 0,
//	    last_build_id TEXT NOT NULL DEFAULT '',
//	    has_unpublished_changes BOOLEAN NOT NULL DEFAULT FALSE
//	);
//
//	CREATE TABLE tracking_events (
//	    session_id TEXT NOT NULL,
//	    event_name TEXT NOT NULL,
//	    event_timestamp TEXT NOT NULL,
//	    data JSONB NOT NULL
//	);
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/blog-backend/pkg/blog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements blog.PostRepository and blog.TrackingStore using
// PostgreSQL.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// patchColumns maps partial-update field names onto table columns. The
// identifier field is intentionally absent.
var patchColumns = map[string]string{
	blog.FieldSlug:                  "slug",
	blog.FieldTitle:                 "title",
	blog.FieldAuthor:                "author",
	blog.FieldExcerpt:               "excerpt",
	blog.FieldContent:               "content",
	blog.FieldTags:                  "tags",
	blog.FieldStatus:                "status",
	blog.FieldCoverImage:            "cover_image",
	blog.FieldUpdatedAt:             "updated_at",
	blog.FieldPublishedAt:           "published_at",
	blog.FieldLastBuildID:           "last_build_id",
	blog.FieldHasUnpublishedChanges: "has_unpublished_changes",
}

const postColumns = `id, slug, title, author, excerpt, content, tags, status, cover_image,
	created_at, updated_at, published_at, like_count, view_count, last_build_id, has_unpublished_changes`

func (r *Repository) CreatePost(ctx context.Context, post *blog.Post) error {
	query := `
		INSERT INTO posts (
			id, slug, title, author, excerpt, content, tags, status, cover_image,
			created_at, updated_at, published_at, like_count, view_count,
			last_build_id, has_unpublished_changes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.Exec(ctx, query,
		post.ID, post.Slug, post.Title, post.Author, post.Excerpt, post.Content,
		post.Tags, string(post.Status), post.CoverImage,
		post.CreatedAt, post.UpdatedAt, post.PublishedAt,
		post.LikeCount, post.ViewCount, post.LastBuildID, post.HasUnpublishedChanges)

	if err != nil {
		return handlePostgresError("create post", err)
	}

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1`, postColumns)

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blog.ErrPostNotFound
		}
		return nil, handlePostgresError("get post", err)
	}

	return post, nil
}

func (r *Repository) ListPosts(ctx context.Context) ([]*blog.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts`, postColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, handlePostgresError("list posts", err)
	}
	defer rows.Close()

	var posts []*blog.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, handlePostgresError("list posts", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list posts", err)
	}

	return posts, nil
}

func (r *Repository) ApplyPartialUpdate(ctx context.Context, id uuid.UUID, patch map[string]any) (*blog.Post, error) {
	var setParts []string
	args := []interface{}{id}

	for field, value := range patch {
		if field == blog.FieldPostID {
			// The identifier is never rewritable.
			continue
		}
		column, ok := patchColumns[field]
		if !ok {
			return nil, fmt.Errorf("unknown patch field %s", field)
		}
		args = append(args, patchValue(value))
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if len(setParts) == 0 {
		return r.GetPost(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(setParts, ", "), postColumns)

	post, err := scanPost(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blog.ErrPostNotFound
		}
		return nil, handlePostgresError("update post", err)
	}

	return post, nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete post", err)
	}

	return nil
}

func (r *Repository) SaveTrackingEvent(ctx context.Context, event *blog.TrackingEvent) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal tracking data: %w", err)
	}

	query := `
		INSERT INTO tracking_events (session_id, event_name, event_timestamp, data)
		VALUES ($1, $2, $3, $4)`

	_, err = r.db.Exec(ctx, query, event.SessionID, string(event.EventName), event.Timestamp, data)
	if err != nil {
		return handlePostgresError("save tracking event", err)
	}

	return nil
}

func scanPost(row pgx.Row) (*blog.Post, error) {
	var post blog.Post
	var status string

	err := row.Scan(
		&post.ID, &post.Slug, &post.Title, &post.Author, &post.Excerpt, &post.Content,
		&post.Tags, &status, &post.CoverImage,
		&post.CreatedAt, &post.UpdatedAt, &post.PublishedAt,
		&post.LikeCount, &post.ViewCount, &post.LastBuildID, &post.HasUnpublishedChanges)
	if err != nil {
		return nil, err
	}

	post.Status = blog.PostStatus(status)

	return &post, nil
}

// patchValue converts workflow patch values into driver-friendly shapes.
func patchValue(value any) any {
	switch v := value.(type) {
	case blog.PostStatus:
		return string(v)
	default:
		return value
	}
}

// handlePostgresError maps driver errors onto readable repository errors.
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: post already exists", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("%s: required column %s is missing", operation, pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("%s: table does not exist - database migration required", operation)
		default:
			return fmt.Errorf("%s: database error: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
