package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Test case 1: Standard timestamp with nanosecond precision
	postedAt := time.Date(2025, 3, 10, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(postedAt, "bat_01HXYZ")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, postedAt, decodedAt, "Posted-at should match after decode")
	assert.Equal(t, "bat_01HXYZ", decodedID, "ID should match after decode")

	// Test case 2: Zero time
	zeroToken := EncodeToken(time.Time{}, "ent_1")
	decodedZero, decodedZeroID, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, time.Time{}, decodedZero, "Zero time should match after decode")
	assert.Equal(t, "ent_1", decodedZeroID, "ID should match after decode")

	// Test case 3: Current time round-trips
	now := time.Now().UTC()
	nowToken := EncodeToken(now, "bat_now")
	decodedNow, _, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestEncodeDecodeToken_IDWithSeparator(t *testing.T) {
	// Only the first pipe separates the fields; the ID keeps the rest.
	postedAt := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	token := EncodeToken(postedAt, "odd|id|value")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, postedAt, decodedAt)
	assert.Equal(t, "odd|id|value", decodedID)
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (missing separator)
	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo=" // Base64 encoded timestamp without separator
	_, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Test invalid timestamp
	invalidTimeToken := "bm90YXRpbWV8YmF0XzE=" // Base64 encoded "notatime|bat_1"
	_, _, err = DecodeToken(invalidTimeToken)
	assert.Error(t, err, "Should return an error for invalid timestamp")
	assert.Contains(t, err.Error(), "time parse", "Error should mention time parsing issue")
}
