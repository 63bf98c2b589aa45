package urlstrategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCDNStrategy(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		key      string
		expected string
	}{
		{
			name:     "bare domain",
			domain:   "cdn.example.com",
			key:      "blogs/p1/cat.png",
			expected: "https://cdn.example.com/blogs/p1/cat.png",
		},
		{
			name:     "scheme preserved",
			domain:   "https://cdn.example.com",
			key:      "blogs/p1/cat.png",
			expected: "https://cdn.example.com/blogs/p1/cat.png",
		},
		{
			name:     "trailing slash trimmed",
			domain:   "https://cdn.example.com/",
			key:      "blogs/p1/cat.png",
			expected: "https://cdn.example.com/blogs/p1/cat.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := NewCDN(tt.domain)
			assert.Equal(t, tt.expected, strategy.PublicURL(tt.key))
		})
	}
}

func TestS3DirectStrategy(t *testing.T) {
	strategy := NewS3Direct("media-bucket")

	assert.Equal(t,
		"https://media-bucket.s3.amazonaws.com/blogs/p1/cat.png",
		strategy.PublicURL("blogs/p1/cat.png"))
}
