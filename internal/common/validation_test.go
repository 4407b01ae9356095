package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUserID_Valid(t *testing.T) {
	validIDs := []string{
		"u1",
		"user-456",
		"3f1c9a52-77aa-4f29-9c61-0d1b2f3a4b5c",
		"Player_07",
		"  padded  ", // trimmed before checking
	}

	for _, id := range validIDs {
		assert.NoError(t, ValidateUserID(id), "Failed for ID: %s", id)
	}
}

func TestValidateUserID_Invalid(t *testing.T) {
	invalidIDs := []string{
		"",
		"   ",
		"user 456",
		"user@example.com",
		"semi;colon",
		"this-identifier-is-way-too-long-to-be-a-valid-user-id-in-the-system",
	}

	for _, id := range invalidIDs {
		err := ValidateUserID(id)
		assert.Error(t, err, "Expected error for ID: %q", id)
		assert.ErrorIs(t, err, ErrInvalidUserID)
	}
}

func TestValidateMessageType(t *testing.T) {
	for _, mt := range []string{"text", "image", "file", "audio"} {
		assert.NoError(t, ValidateMessageType(mt))
	}

	err := ValidateMessageType("video")
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
