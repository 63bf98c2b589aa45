// Package dynamodb implements blog.PostRepository and blog.TrackingStore on
// DynamoDB tables keyed by postId.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/tendant/blog-backend/pkg/blog"
)

// Config options for the DynamoDB repository
type Config struct {
	Region          string // AWS region
	PostsTable      string // table holding post records
	TrackingTable   string // table holding tracking events
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint (DynamoDB Local)
}

// Repository implements blog.PostRepository and blog.TrackingStore using
// DynamoDB.
type Repository struct {
	client        *dynamodb.Client
	postsTable    string
	trackingTable string
}

// New creates a new DynamoDB repository
func New(config Config) (*Repository, error) {
	if config.PostsTable == "" {
		return nil, errors.New("posts table name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		// Use default credential chain
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var ddbOptions []func(*dynamodb.Options)

	if config.Endpoint != "" {
		ddbOptions = append(ddbOptions, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
		})
	}

	return &Repository{
		client:        dynamodb.NewFromConfig(awsCfg, ddbOptions...),
		postsTable:    config.PostsTable,
		trackingTable: config.TrackingTable,
	}, nil
}

// postRecord is the persisted shape of a blog.Post. Timestamps are stored
// as ISO-8601 strings.
type postRecord struct {
	PostID                string   `dynamodbav:"postId"`
	Slug                  string   `dynamodbav:"slug"`
	Title                 string   `dynamodbav:"title"`
	Author                string   `dynamodbav:"author"`
	Excerpt               string   `dynamodbav:"excerpt"`
	Content               string   `dynamodbav:"content"`
	Tags                  []string `dynamodbav:"tags"`
	Status                string   `dynamodbav:"status"`
	CoverImage            string   `dynamodbav:"coverImage"`
	CreatedAt             string   `dynamodbav:"createdAt"`
	UpdatedAt             string   `dynamodbav:"updatedAt"`
	PublishedAt           string   `dynamodbav:"publishedAt,omitempty"`
	LikeCount             int      `dynamodbav:"likeCount"`
	ViewCount             int      `dynamodbav:"viewCount"`
	LastBuildID           string   `dynamodbav:"lastBuildId,omitempty"`
	HasUnpublishedChanges bool     `dynamodbav:"hasUnpublishedChanges"`
}

func toRecord(post *blog.Post) *postRecord {
	record := &postRecord{
		PostID:                post.ID.String(),
		Slug:                  post.Slug,
		Title:                 post.Title,
		Author:                post.Author,
		Excerpt:               post.Excerpt,
		Content:               post.Content,
		Tags:                  post.Tags,
		Status:                string(post.Status),
		CoverImage:            post.CoverImage,
		CreatedAt:             formatTime(post.CreatedAt),
		UpdatedAt:             formatTime(post.UpdatedAt),
		LikeCount:             post.LikeCount,
		ViewCount:             post.ViewCount,
		LastBuildID:           post.LastBuildID,
		HasUnpublishedChanges: post.HasUnpublishedChanges,
	}
	if post.PublishedAt != nil {
		record.PublishedAt = formatTime(*post.PublishedAt)
	}
	return record
}

func fromRecord(record *postRecord) (*blog.Post, error) {
	id, err := uuid.Parse(record.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post id %q: %w", record.PostID, err)
	}

	createdAt, err := parseTime(record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt for post %s: %w", record.PostID, err)
	}
	updatedAt, err := parseTime(record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updatedAt for post %s: %w", record.PostID, err)
	}

	post := &blog.Post{
		ID:                    id,
		Slug:                  record.Slug,
		Title:                 record.Title,
		Author:                record.Author,
		Excerpt:               record.Excerpt,
		Content:               record.Content,
		Tags:                  record.Tags,
		Status:                blog.PostStatus(record.Status),
		CoverImage:            record.CoverImage,
		CreatedAt:             createdAt,
		UpdatedAt:             updatedAt,
		LikeCount:             record.LikeCount,
		ViewCount:             record.ViewCount,
		LastBuildID:           record.LastBuildID,
		HasUnpublishedChanges: record.HasUnpublishedChanges,
	}

	if record.PublishedAt != "" {
		publishedAt, err := parseTime(record.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid publishedAt for post %s: %w", record.PostID, err)
		}
		post.PublishedAt = &publishedAt
	}

	return post, nil
}

func (r *Repository) CreatePost(ctx context.Context, post *blog.Post) error {
	item, err := attributevalue.MarshalMap(toRecord(post))
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.postsTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put post: %w", err)
	}

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.postsTable),
		Key:       postKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if result.Item == nil {
		return nil, blog.ErrPostNotFound
	}

	var record postRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	return fromRecord(&record)
}

func (r *Repository) ListPosts(ctx context.Context) ([]*blog.Post, error) {
	var posts []*blog.Post

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.postsTable),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posts: %w", err)
		}

		var records []postRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal posts: %w", err)
		}

		for i := range records {
			post, err := fromRecord(&records[i])
			if err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}
	}

	return posts, nil
}

func (r *Repository) ApplyPartialUpdate(ctx context.Context, id uuid.UUID, patch map[string]any) (*blog.Post, error) {
	var setParts []string
	names := make(map[string]string)
	values := make(map[string]types.AttributeValue)

	for field, value := range patch {
		if field == blog.FieldPostID {
			// The identifier is never rewritable.
			continue
		}

		av, err := attributevalue.Marshal(patchValue(value))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal patch field %s: %w", field, err)
		}

		nameKey := "#" + field
		valueKey := ":" + field
		names[nameKey] = field
		values[valueKey] = av
		setParts = append(setParts, fmt.Sprintf("%s = %s", nameKey, valueKey))
	}

	if len(setParts) == 0 {
		return r.GetPost(ctx, id)
	}

	result, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.postsTable),
		Key:                       postKey(id),
		UpdateExpression:          aws.String("SET " + strings.Join(setParts, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(postId)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, blog.ErrPostNotFound
		}
		return nil, classifyError("update post", err)
	}

	var record postRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated post: %w", err)
	}

	return fromRecord(&record)
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.postsTable),
		Key:       postKey(id),
	})
	if err != nil {
		return classifyError("delete post", err)
	}

	return nil
}

func (r *Repository) SaveTrackingEvent(ctx context.Context, event *blog.TrackingEvent) error {
	if r.trackingTable == "" {
		return errors.New("tracking table name is not configured")
	}

	item, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("failed to marshal tracking event: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.trackingTable),
		Item:      item,
	})
	if err != nil {
		return classifyError("save tracking event", err)
	}

	return nil
}

func postKey(id uuid.UUID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"postId": &types.AttributeValueMemberS{Value: id.String()},
	}
}

// patchValue converts workflow patch values into their persisted shapes.
// Times are stored as ISO-8601 strings, matching postRecord.
func patchValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return formatTime(v)
	case blog.PostStatus:
		return string(v)
	default:
		return value
	}
}

// classifyError maps DynamoDB API errors onto the repository's error
// surface, keeping the AWS error code visible for infrastructure-level
// retry policies.
func classifyError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == "ResourceNotFoundException" {
			return fmt.Errorf("%s: table does not exist: %w", op, err)
		}
		return fmt.Errorf("%s: %s: %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
