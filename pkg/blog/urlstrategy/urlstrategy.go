// Package urlstrategy decides how public, readable URLs are generated for
// media object keys. The broker and the promoter both depend on a Strategy
// so the URL scheme can change (CDN in front, direct bucket access) without
// touching either.
package urlstrategy

import (
	"fmt"
	"strings"
)

// Strategy generates the public URL for an object key.
type Strategy interface {
	PublicURL(objectKey string) string
}

// CDNStrategy generates URLs that point at a CDN distribution sitting in
// front of the media bucket.
type CDNStrategy struct {
	domain string
}

// NewCDN creates a Strategy for the given CDN domain, e.g.
// "cdn.example.com" or "https://cdn.example.com".
func NewCDN(domain string) *CDNStrategy {
	domain = strings.TrimSuffix(domain, "/")
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return &CDNStrategy{domain: domain}
}

func (s *CDNStrategy) PublicURL(objectKey string) string {
	return fmt.Sprintf("%s/%s", s.domain, objectKey)
}

// S3DirectStrategy generates virtual-hosted S3 URLs pointing straight at
// the bucket. Used when no CDN domain is configured.
type S3DirectStrategy struct {
	bucket string
}

// NewS3Direct creates a Strategy for direct bucket access.
func NewS3Direct(bucket string) *S3DirectStrategy {
	return &S3DirectStrategy{bucket: bucket}
}

func (s *S3DirectStrategy) PublicURL(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, objectKey)
}
