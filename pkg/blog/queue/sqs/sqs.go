// Package sqs implements blog.TrackingQueue on Amazon SQS and provides the
// receive/acknowledge surface used by the tracking consumer worker.
package sqs

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/tendant/blog-backend/pkg/blog"
)

// Config options for the SQS queue
type Config struct {
	Region          string // AWS region
	QueueURL        string // SQS queue URL
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint (LocalStack, ElasticMQ)
	MaxMessages     int    // Batch size per receive (default: 10)
	WaitSeconds     int    // Long-poll wait per receive (default: 20)
}

// Queue implements blog.TrackingQueue using Amazon SQS.
type Queue struct {
	client      *sqs.Client
	queueURL    string
	maxMessages int32
	waitSeconds int32
}

// New creates a new SQS queue
func New(config Config) (*Queue, error) {
	if config.QueueURL == "" {
		return nil, errors.New("queue URL is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}
	if config.MaxMessages == 0 {
		config.MaxMessages = 10
	}
	if config.WaitSeconds == 0 {
		config.WaitSeconds = 20
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

	var sqsOptions []func(*sqs.Options)

	if config.Endpoint != "" {
		sqsOptions = append(sqsOptions, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
		})
	}

	return &Queue{
		client:      sqs.NewFromConfig(awsCfg, sqsOptions...),
		queueURL:    config.QueueURL,
		maxMessages: int32(config.MaxMessages),
		waitSeconds: int32(config.WaitSeconds),
	}, nil
}

// Send enqueues a payload. It returns only after SQS has durably accepted
// the message.
func (q *Queue) Send(ctx context.Context, payload []byte) error {
	_, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}

// Receive long-polls the queue and returns the delivered batch. An empty
// slice means the poll timed out with no messages.
func (q *Queue) Receive(ctx context.Context) ([]blog.QueueRecord, error) {
	result, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: q.maxMessages,
		WaitTimeSeconds:     q.waitSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages from SQS: %w", err)
	}

	records := make([]blog.QueueRecord, 0, len(result.Messages))
	for _, msg := range result.Messages {
		records = append(records, blog.QueueRecord{
			MessageID: aws.ToString(msg.MessageId),
			Handle:    aws.ToString(msg.ReceiptHandle),
			Body:      []byte(aws.ToString(msg.Body)),
		})
	}

	return records, nil
}

// Acknowledge deletes a processed record from the queue. Records that are
// not acknowledged reappear after the visibility timeout.
func (q *Queue) Acknowledge(ctx context.Context, record blog.QueueRecord) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(record.Handle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message %s from SQS: %w", record.MessageID, err)
	}

	return nil
}
