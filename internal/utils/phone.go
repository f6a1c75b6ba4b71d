package utils

import (
	"regexp"
)

var (
	phoneRegex      = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	phoneStripRegex = regexp.MustCompile(`[^\d+]`)
)

// IsValidPhone accepts numbers with common separators that reduce to an
// E.164-like digit string.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phoneStripRegex.ReplaceAllString(phone, ""))
}
