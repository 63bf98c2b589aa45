package blog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tendant/blog-backend/pkg/blog"
)

func TestExtractStagingReferences(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "empty content",
			content:  "",
			expected: nil,
		},
		{
			name:     "no references",
			content:  "plain text with a link https://example.com/blogs/p1/cat.png",
			expected: nil,
		},
		{
			name:    "single reference",
			content: "see https://cdn/staging/abc/cat.png here",
			expected: []string{
				"https://cdn/staging/abc/cat.png",
			},
		},
		{
			name:    "multiple references in order",
			content: "a https://cdn/staging/one/a.png b http://cdn/staging/two/b.jpg c",
			expected: []string{
				"https://cdn/staging/one/a.png",
				"http://cdn/staging/two/b.jpg",
			},
		},
		{
			name:    "duplicates preserved",
			content: "x https://cdn/staging/abc/cat.png y https://cdn/staging/abc/cat.png z",
			expected: []string{
				"https://cdn/staging/abc/cat.png",
				"https://cdn/staging/abc/cat.png",
			},
		},
		{
			name:    "markdown link closes at parenthesis",
			content: "![cat](https://cdn/staging/abc/cat.png) trailing",
			expected: []string{
				"https://cdn/staging/abc/cat.png",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, blog.ExtractStagingReferences(tt.content))
		})
	}
}
