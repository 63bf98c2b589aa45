package blog

import "regexp"

// Object-store key prefixes. Staged uploads live under StagingPrefix until a
// publish promotes them under PostMediaPrefix.
const (
	StagingPrefix   = "staging"
	PostMediaPrefix = "blogs"
)

// stagingRefRe matches absolute URLs whose path crosses the staging area:
// scheme://host/.../staging/<opaque-id>/<filename>, with no whitespace and
// no closing parenthesis inside the URL (so references embedded in markdown
// link syntax terminate correctly).
//
// The pattern is deliberately kept apart from the promotion algorithm so it
// can be hardened without touching promotion logic.
var stagingRefRe = regexp.MustCompile(`https?://[^\s)]+/` + StagingPrefix + `/[\w-]+/[^)\s]+`)

// ExtractStagingReferences returns every staging-area media reference in
// content, in order of first appearance, duplicates preserved. It returns
// an empty slice when content has no matches, including empty content.
func ExtractStagingReferences(content string) []string {
	return stagingRefRe.FindAllString(content, -1)
}
