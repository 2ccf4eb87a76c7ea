package utils

import "strings"

// NewNullString is a helper for string pointers, returning nil if string is empty.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NullIfBlank maps nil, "" and whitespace-only values to nil so they are stored as NULL.
func NullIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NormalizeEmail lowercases and trims an address before it is stored or compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
