package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// SlugPrefix lowercases a title and collapses every non-alphanumeric run
// into a single hyphen, trimming leading/trailing hyphens.
func SlugPrefix(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// NewSlug appends the creation timestamp (unix millis) so two events with
// identical titles still receive distinct slugs.
func NewSlug(title string, createdAtMillis int64) string {
	prefix := SlugPrefix(title)
	if prefix == "" {
		return fmt.Sprintf("event-%d", createdAtMillis)
	}
	return fmt.Sprintf("%s-%d", prefix, createdAtMillis)
}
