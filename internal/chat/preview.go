package chat

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const previewLimit = 50

// strict drops every markup tag, leaving plain text only.
var strict = bluemonday.StrictPolicy()

// Preview derives the sidebar preview for a message: markup stripped,
// whitespace trimmed, truncated to the first 50 characters.
func Preview(content string) string {
	plain := html.UnescapeString(strict.Sanitize(content))
	plain = strings.TrimSpace(plain)
	runes := []rune(plain)
	if len(runes) > previewLimit {
		return string(runes[:previewLimit])
	}
	return plain
}
