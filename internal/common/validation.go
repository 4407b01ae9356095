package common

import (
	"fmt"
	"regexp"
	"strings"
)

var userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,36}$`)

// ValidateUserID checks the identifier format used across the service:
// 1-36 characters of letters, digits, underscore or hyphen. UUIDs and
// handles both pass; spaces and punctuation do not.
func ValidateUserID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: user ID is required", ErrInvalidUserID)
	}
	if !userIDRegex.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, id)
	}
	return nil
}

// ValidateMessageType rejects anything outside the allowed set.
func ValidateMessageType(mt string) error {
	if !MessageType(mt).IsValid() {
		return fmt.Errorf("%w: unknown message type %q", ErrValidation, mt)
	}
	return nil
}
