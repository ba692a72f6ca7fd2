package utils

import (
	"regexp"
	"strings"
)

// --- Slug Sanitization ---
var invalidSlugChars = regexp.MustCompile(`[^a-z0-9._-]+`) // Anything unsafe in a URL path segment or query value
var consecutiveDashes = regexp.MustCompile(`-{2,}`)
const maxSlugLength = 100

// SanitizeSlug turns a file stem into a document slug usable in routes and query parameters
func SanitizeSlug(name string) string {
	sanitized := invalidSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	sanitized = consecutiveDashes.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, "-.")

	if len(sanitized) > maxSlugLength {
		sanitized = strings.Trim(sanitized[:maxSlugLength], "-.")
	}

	if sanitized == "" {
		sanitized = "untitled"
	}
	return sanitized
}
