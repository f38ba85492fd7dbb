package ddd

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a new opaque identifier for users, reservations and events.
func GenerateID() string {
	return uuid.New().String()
}

// IsBlankID reports whether id is empty or whitespace only.
func IsBlankID(id string) bool {
	return strings.TrimSpace(id) == ""
}

// IsValidID reports whether id parses as a UUID.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
