// Package config builds fully wired blog runtimes from declarative
// configuration. Capability clients (document store, media store, queue)
// are constructed explicitly here, once, at startup, and passed into each
// component; nothing relies on implicit process-wide memoization.
package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/blog-backend/pkg/blog"
	memoryqueue "github.com/tendant/blog-backend/pkg/blog/queue/memory"
	sqsqueue "github.com/tendant/blog-backend/pkg/blog/queue/sqs"
	dynamodbrepo "github.com/tendant/blog-backend/pkg/blog/repo/dynamodb"
	memoryrepo "github.com/tendant/blog-backend/pkg/blog/repo/memory"
	postgresrepo "github.com/tendant/blog-backend/pkg/blog/repo/postgres"
	memorystorage "github.com/tendant/blog-backend/pkg/blog/storage/memory"
	s3storage "github.com/tendant/blog-backend/pkg/blog/storage/s3"
	"github.com/tendant/blog-backend/pkg/blog/urlstrategy"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:          "8080",
		Environment:   "development",
		DatabaseType:  "memory",
		StorageType:   "memory",
		QueueType:     "memory",
		TrackingTable: "Tracking",
	}
}

// ServerConfig represents configuration for the blog backend.
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Document store configuration
	DatabaseType  string // "memory", "dynamodb", "postgres"
	DatabaseURL   string // postgres connection string
	PostsTable    string // dynamodb posts table
	TrackingTable string // dynamodb tracking table

	// Media store configuration
	StorageType  string // "memory", "s3"
	MediaBucket  string
	CDNDomain    string // optional CDN domain in front of the media bucket
	S3Endpoint   string // optional custom endpoint (MinIO)
	UsePathStyle bool

	// Queue configuration
	QueueType   string // "memory", "sqs"
	QueueURL    string
	SQSEndpoint string

	// Shared AWS options
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	switch c.DatabaseType {
	case "memory":
	case "dynamodb":
		if c.PostsTable == "" {
			return fmt.Errorf("posts table is required for dynamodb database")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for postgres database")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}

	switch c.StorageType {
	case "memory":
	case "s3":
		if c.MediaBucket == "" {
			return fmt.Errorf("media bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}

	switch c.QueueType {
	case "memory":
	case "sqs":
		if c.QueueURL == "" {
			return fmt.Errorf("queue URL is required for sqs queue")
		}
	default:
		return fmt.Errorf("unsupported queue type: %s", c.QueueType)
	}

	return nil
}

// Runtime is the set of wired components a process needs. All capability
// instances live for the process lifetime.
type Runtime struct {
	Service  blog.Service
	Broker   *blog.UploadBroker
	Promoter *blog.Promoter
	Producer *blog.Producer
	Consumer *blog.Consumer

	Repository    blog.PostRepository
	TrackingStore blog.TrackingStore
	MediaStore    blog.MediaStore
	Queue         blog.TrackingQueue
}

// BuildRuntime wires the configured backends into a Runtime.
func (c *ServerConfig) BuildRuntime(logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repo, trackingStore, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	mediaStore, err := c.buildMediaStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build media store: %w", err)
	}

	queue, err := c.buildQueue()
	if err != nil {
		return nil, fmt.Errorf("failed to build queue: %w", err)
	}

	urls := c.buildURLStrategy()

	promoter := blog.NewPromoter(mediaStore, urls, logger)

	svc, err := blog.New(
		blog.WithRepository(repo),
		blog.WithPromoter(promoter),
		blog.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build service: %w", err)
	}

	return &Runtime{
		Service:       svc,
		Broker:        blog.NewUploadBroker(mediaStore, urls, logger),
		Promoter:      promoter,
		Producer:      blog.NewProducer(queue, logger),
		Consumer:      blog.NewConsumer(trackingStore, logger),
		Repository:    repo,
		TrackingStore: trackingStore,
		MediaStore:    mediaStore,
		Queue:         queue,
	}, nil
}

func (c *ServerConfig) buildRepository() (blog.PostRepository, blog.TrackingStore, error) {
	switch c.DatabaseType {
	case "memory":
		repo := memoryrepo.New()
		return repo, repo, nil

	case "dynamodb":
		repo, err := dynamodbrepo.New(dynamodbrepo.Config{
			Region:          c.AWSRegion,
			PostsTable:      c.PostsTable,
			TrackingTable:   c.TrackingTable,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil

	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		repo := postgresrepo.NewWithPool(pool)
		return repo, repo, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) buildMediaStore() (blog.MediaStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil

	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.AWSRegion,
			Bucket:          c.MediaBucket,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
			Endpoint:        c.S3Endpoint,
			UsePathStyle:    c.UsePathStyle,
		})

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

func (c *ServerConfig) buildQueue() (blog.TrackingQueue, error) {
	switch c.QueueType {
	case "memory":
		return memoryqueue.New(), nil

	case "sqs":
		return sqsqueue.New(sqsqueue.Config{
			Region:          c.AWSRegion,
			QueueURL:        c.QueueURL,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
			Endpoint:        c.SQSEndpoint,
		})

	default:
		return nil, fmt.Errorf("unsupported queue type: %s", c.QueueType)
	}
}

// BuildConsumerQueue builds the receive side of the SQS queue for the
// tracking consumer worker.
func (c *ServerConfig) BuildConsumerQueue() (*sqsqueue.Queue, error) {
	if c.QueueType != "sqs" {
		return nil, fmt.Errorf("consumer queue requires sqs queue type, got %s", c.QueueType)
	}

	return sqsqueue.New(sqsqueue.Config{
		Region:          c.AWSRegion,
		QueueURL:        c.QueueURL,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
		Endpoint:        c.SQSEndpoint,
	})
}

func (c *ServerConfig) buildURLStrategy() urlstrategy.Strategy {
	if c.CDNDomain != "" {
		return urlstrategy.NewCDN(c.CDNDomain)
	}
	if c.MediaBucket != "" {
		return urlstrategy.NewS3Direct(c.MediaBucket)
	}
	// Memory storage in development has no real bucket behind it.
	return urlstrategy.NewCDN("localhost:" + c.Port + "/media")
}
