package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const memberIDLength = 7

// ValidFullName requires at least 3 characters after trimming.
func ValidFullName(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= 3
}

// ValidMemberID requires exactly 7 digits.
func ValidMemberID(s string) bool {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) != memberIDLength {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidFreeText requires a non-blank string of at least min runes.
func ValidFreeText(s string, min int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= min
}
