package utils

import (
	"strings"
	"unicode/utf8"
)

// TruncatePreview cuts s to limit runes and appends "..." when it was longer.
func TruncatePreview(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
