package textclean

import (
	"regexp"
	"strings"
)

var (
	urlPattern        = regexp.MustCompile(`(?i)https?://\S+`)
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	disallowedPattern = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?'-]`)
	spacePattern      = regexp.MustCompile(`\s+`)
)

// Clean strips URLs, markup and anything outside letters, digits, whitespace
// and basic punctuation, then collapses whitespace. Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	cleaned := urlPattern.ReplaceAllString(text, "")
	cleaned = tagPattern.ReplaceAllString(cleaned, "")
	cleaned = disallowedPattern.ReplaceAllString(cleaned, "")
	cleaned = spacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Truncate cuts s to at most max bytes. Clean output is ASCII so byte and
// rune boundaries coincide.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
