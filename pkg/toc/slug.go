package toc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	slugInvalid   = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// Slugify turns heading text into an anchor id: lowercase, trimmed, whitespace
// runs replaced by '-', everything outside [a-z0-9-] removed and '-' runs collapsed.
func Slugify(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	return hyphenRun.ReplaceAllString(s, "-")
}
