package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("warbler_fan"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 31)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("bird@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
}

func TestValidateMessageText(t *testing.T) {
	assert.NoError(t, ValidateMessageText("hello world"))
	assert.NoError(t, ValidateMessageText(strings.Repeat("a", 140)))
	assert.Error(t, ValidateMessageText(""))
	assert.Error(t, ValidateMessageText(strings.Repeat("a", 141)))
}

func TestValidateMessageTextCountsRunesNotBytes(t *testing.T) {
	// 140 two-byte characters is 280 bytes but still a valid message
	assert.NoError(t, ValidateMessageText(strings.Repeat("é", 140)))
	assert.Error(t, ValidateMessageText(strings.Repeat("é", 141)))
}
