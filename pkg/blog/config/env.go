package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig mirrors the environment variables of the deployed system.
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseType  string `env:"DATABASE_TYPE" env-default:"memory"`
	DatabaseURL   string `env:"DATABASE_URL"`
	PostsTable    string `env:"DB_TABLE"`
	TrackingTable string `env:"TRACKING_DB_TABLE" env-default:"Tracking"`

	StorageType  string `env:"STORAGE_TYPE" env-default:"memory"`
	MediaBucket  string `env:"S3_MEDIA_BUCKET"`
	CDNDomain    string `env:"CLOUDFRONT_DOMAIN"`
	S3Endpoint   string `env:"S3_ENDPOINT"`
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`

	QueueType   string `env:"QUEUE_TYPE" env-default:"memory"`
	QueueURL    string `env:"SQS_QUEUE_URL"`
	SQSEndpoint string `env:"SQS_ENDPOINT"`

	AWSRegion          string `env:"APP_AWS_REGION" env-default:"us-east-1"`
	AWSAccessKeyID     string `env:"APP_AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"APP_AWS_SECRET_ACCESS_KEY"`
}

// WithEnv applies environment variable overrides. Backend types are
// inferred from their settings when left at the default: a DB_TABLE implies
// dynamodb, a postgres DATABASE_URL implies postgres, an S3_MEDIA_BUCKET
// implies s3 storage and an SQS_QUEUE_URL implies sqs.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		c.Port = env.Port
		c.Environment = env.Environment

		c.DatabaseType = env.DatabaseType
		c.DatabaseURL = env.DatabaseURL
		c.PostsTable = env.PostsTable
		c.TrackingTable = env.TrackingTable
		if c.DatabaseType == "memory" {
			if env.PostsTable != "" {
				c.DatabaseType = "dynamodb"
			} else if env.DatabaseURL != "" {
				c.DatabaseType = "postgres"
			}
		}

		c.StorageType = env.StorageType
		c.MediaBucket = env.MediaBucket
		c.CDNDomain = env.CDNDomain
		c.S3Endpoint = env.S3Endpoint
		c.UsePathStyle = env.UsePathStyle
		if c.StorageType == "memory" && env.MediaBucket != "" {
			c.StorageType = "s3"
		}

		c.QueueType = env.QueueType
		c.QueueURL = env.QueueURL
		c.SQSEndpoint = env.SQSEndpoint
		if c.QueueType == "memory" && env.QueueURL != "" {
			c.QueueType = "sqs"
		}

		c.AWSRegion = env.AWSRegion
		c.AWSAccessKeyID = env.AWSAccessKeyID
		c.AWSSecretAccessKey = env.AWSSecretAccessKey

		return nil
	}
}
