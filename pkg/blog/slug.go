package blog

import (
	"regexp"
	"strings"
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s_-]+`)
)

// Slugify derives a URL slug from a post title: lower-cases the input,
// strips every character that is not a letter, digit, underscore, hyphen or
// whitespace, collapses runs of whitespace, underscores and hyphens into a
// single hyphen, and trims leading and trailing hyphens.
//
// Slugify is pure and idempotent. Empty or punctuation-only titles yield an
// empty slug; that is not an error at this layer.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
