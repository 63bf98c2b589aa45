package blog

// Request DTOs

// CreatePostRequest contains parameters for creating a new post.
type CreatePostRequest struct {
	Title      string
	Author     string
	Excerpt    string
	Content    string
	Tags       []string
	Status     PostStatus // defaults to draft when empty
	CoverImage string
}

// UpdatePostRequest contains parameters for partially updating a post. Nil
// fields are left untouched in storage.
type UpdatePostRequest struct {
	Title                 *string
	Author                *string
	Excerpt               *string
	Content               *string
	Tags                  *[]string
	Status                *PostStatus
	CoverImage            *string
	HasUnpublishedChanges *bool
}
