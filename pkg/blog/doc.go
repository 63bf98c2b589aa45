// Package blog provides the content lifecycle and persistence core of a
// blog-publishing backend with pluggable document-store, object-store and
// queue backends.
//
// It exposes a Service interface that orchestrates post creation, partial
// updates and deletion, an UploadBroker that issues time-boxed staging
// upload tickets, a Promoter that moves staged media to permanent
// post-scoped locations when content is finalized, and a Producer/Consumer
// pair for queue-decoupled tracking ingestion. Implementations of the
// capability interfaces (memory, DynamoDB, Postgres, S3, SQS) are provided
// under subpackages.
package blog
