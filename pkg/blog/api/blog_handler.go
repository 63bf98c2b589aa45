// Package api exposes the blog backend over HTTP using chi routers.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tendant/blog-backend/pkg/blog"
)

// CreateBlogRequest is the request body for creating a post
type CreateBlogRequest struct {
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	Excerpt    string          `json:"excerpt"`
	Content    string          `json:"content"`
	Tags       []string        `json:"tags"`
	Status     blog.PostStatus `json:"status"`
	CoverImage string          `json:"coverImage"`
}

// UpdateBlogRequest is the request body for partially updating a post.
// Absent fields are left untouched.
type UpdateBlogRequest struct {
	Title                 *string          `json:"title"`
	Author                *string          `json:"author"`
	Excerpt               *string          `json:"excerpt"`
	Content               *string          `json:"content"`
	Tags                  *[]string        `json:"tags"`
	Status                *blog.PostStatus `json:"status"`
	CoverImage            *string          `json:"coverImage"`
	HasUnpublishedChanges *bool            `json:"hasUnpublishedChanges"`
}

// BlogHandler handles HTTP requests for posts
type BlogHandler struct {
	service blog.Service
	logger  *slog.Logger
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(service blog.Service, logger *slog.Logger) *BlogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlogHandler{service: service, logger: logger}
}

// Routes returns the routes for posts
func (h *BlogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateBlog)
	r.Get("/", h.ListBlogs)
	r.Get("/{id}", h.GetBlog)
	r.Patch("/{id}", h.UpdateBlog)
	r.Delete("/{id}", h.DeleteBlog)

	return r
}

// CreateBlog creates a new post
func (h *BlogHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var req CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(r.Context(), blog.CreatePostRequest{
		Title:      req.Title,
		Author:     req.Author,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Tags:       req.Tags,
		Status:     req.Status,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
}

// ListBlogs returns all posts
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if posts == nil {
		posts = []*blog.Post{}
	}

	render.JSON(w, r, posts)
}

// GetBlog returns a single post
func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.JSON(w, r, post)
}

// UpdateBlog partially updates a post
func (h *BlogHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req UpdateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.UpdatePost(r.Context(), id, blog.UpdatePostRequest{
		Title:                 req.Title,
		Author:                req.Author,
		Excerpt:               req.Excerpt,
		Content:               req.Content,
		Tags:                  req.Tags,
		Status:                req.Status,
		CoverImage:            req.CoverImage,
		HasUnpublishedChanges: req.HasUnpublishedChanges,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.JSON(w, r, post)
}

// DeleteBlog deletes a post
func (h *BlogHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeletePost(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BlogHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, h.logger, err)
}

// respondError maps domain errors onto HTTP status codes.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var ve *blog.ValidationError

	switch {
	case errors.Is(err, blog.ErrPostNotFound):
		http.Error(w, "Post not found", http.StatusNotFound)
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
