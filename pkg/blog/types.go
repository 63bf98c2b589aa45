package blog

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the domain type for post lifecycle states.
type PostStatus string

// Post status constants (typed). Any state is reachable from any state;
// the first transition to published is the only event that sets PublishedAt.
const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Valid reports whether s is one of the known post statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post represents a durable blog post record.
//
// ID is immutable after creation. Slug is a pure function of the latest
// Title. PublishedAt is set once, the first time the post transitions to
// published, and is never overwritten afterwards, including when a post is
// archived and later republished.
type Post struct {
	ID                    uuid.UUID  `json:"postId"`
	Slug                  string     `json:"slug"`
	Title                 string     `json:"title"`
	Author                string     `json:"author"`
	Excerpt               string     `json:"excerpt"`
	Content               string     `json:"content,omitempty"`
	Tags                  []string   `json:"tags"`
	Status                PostStatus `json:"status"`
	CoverImage            string     `json:"coverImage,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
	PublishedAt           *time.Time `json:"publishedAt,omitempty"`
	LikeCount             int        `json:"likeCount"`
	ViewCount             int        `json:"viewCount"`
	LastBuildID           string     `json:"lastBuildId,omitempty"`
	HasUnpublishedChanges bool       `json:"hasUnpublishedChanges"`
}

// Patch field names accepted by PostRepository.ApplyPartialUpdate. The
// identifier field is never rewritable and is skipped by every repository
// implementation.
const (
	FieldPostID                = "postId"
	FieldSlug                  = "slug"
	FieldTitle                 = "title"
	FieldAuthor                = "author"
	FieldExcerpt               = "excerpt"
	FieldContent               = "content"
	FieldTags                  = "tags"
	FieldStatus                = "status"
	FieldCoverImage            = "coverImage"
	FieldUpdatedAt             = "updatedAt"
	FieldPublishedAt           = "publishedAt"
	FieldLastBuildID           = "lastBuildId"
	FieldHasUnpublishedChanges = "hasUnpublishedChanges"
)

// StagingTicket represents a single permitted upload into the staging area.
// It is not persisted; ownership stays with the client until the upload is
// either promoted by a publish or abandoned.
type StagingTicket struct {
	// Key is the staging-area object key the ticket is scoped to.
	Key string `json:"key"`
	// UploadURL is a write-capable presigned URL that expires 15 minutes
	// after issuance.
	UploadURL string `json:"uploadUrl"`
	// PublicURL is the readable location for the key. It points into the
	// staging area until the object is promoted.
	PublicURL string `json:"publicUrl"`
}

// EventName is the domain type for tracking event names.
type EventName string

// Tracking event name constants (typed).
const (
	EventPageView      EventName = "page_view"
	EventTimeOnPage    EventName = "time_on_page"
	EventScrollDepth   EventName = "scroll_depth"
	EventBlogCompleted EventName = "blog_completed"
	EventDropPosition  EventName = "drop_position"
)

// Valid reports whether n is one of the known tracking event names.
func (n EventName) Valid() bool {
	switch n {
	case EventPageView, EventTimeOnPage, EventScrollDepth, EventBlogCompleted, EventDropPosition:
		return true
	}
	return false
}

// TrackingEvent is a single reader-interaction record. Timestamp is
// client-supplied and treated as an opaque string. Duplicates are accepted
// as a consequence of at-least-once delivery.
type TrackingEvent struct {
	SessionID string         `json:"sessionId" dynamodbav:"sessionId"`
	EventName EventName      `json:"eventName" dynamodbav:"eventName"`
	Timestamp string         `json:"timestamp" dynamodbav:"timestamp"`
	Data      map[string]any `json:"data" dynamodbav:"data"`
}

// QueueRecord is a single message delivered from the tracking queue.
type QueueRecord struct {
	// MessageID identifies the delivery for logging.
	MessageID string
	// Handle is the queue-specific acknowledgement token.
	Handle string
	// Body is the serialized TrackingEvent payload.
	Body []byte
}
