package textutil

import (
	"strings"
	"unicode/utf8"
)

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// PrefixRunes returns the first n runes of s. Multi-byte characters are never
// split, so Japanese text is cut on character boundaries.
func PrefixRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

var snippetReplacer = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")

// Snippet collapses whitespace and truncates s to limit runes for logging.
func Snippet(s string, limit int) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(snippetReplacer.Replace(trimmed)), " ")
	if limit > 0 && utf8.RuneCountInString(clean) > limit {
		clean = PrefixRunes(clean, limit) + "..."
	}
	return clean
}
