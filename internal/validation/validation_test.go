package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice", "bob_42", "some-user", "abc", strings.Repeat("x", 30)}
	for _, name := range valid {
		assert.NoError(t, ValidateUsername(name), "expected %q to be valid", name)
	}

	invalid := []string{"", "ab", strings.Repeat("x", 31), "has space", "bad!char", "tab\tname"}
	for _, name := range invalid {
		assert.Error(t, ValidateUsername(name), "expected %q to be rejected", name)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.org"}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), "expected %q to be valid", email)
	}

	longLocal := strings.Repeat("a", 250) + "@example.com"
	invalid := []string{"", "noat.example.com", "two@@example.com", "spaces in@example.com", "nodot@example", longLocal}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), "expected %q to be rejected", email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword(strings.Repeat("p", 128)))

	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("1234567"))
	assert.Error(t, ValidatePassword(strings.Repeat("p", 129)))
}

func TestValidateShoutMessage(t *testing.T) {
	assert.NoError(t, ValidateShoutMessage("hello"))
	assert.NoError(t, ValidateShoutMessage(strings.Repeat("m", 500)))

	assert.Error(t, ValidateShoutMessage(""))
	assert.Error(t, ValidateShoutMessage("   "))
	assert.Error(t, ValidateShoutMessage(strings.Repeat("m", 501)))
}

func TestValidateThreadTitle(t *testing.T) {
	assert.NoError(t, ValidateThreadTitle("A perfectly normal title"))
	assert.NoError(t, ValidateThreadTitle(strings.Repeat("t", 200)))

	assert.Error(t, ValidateThreadTitle(""))
	assert.Error(t, ValidateThreadTitle("  \t "))
	assert.Error(t, ValidateThreadTitle(strings.Repeat("t", 201)))
}

func TestValidatePostContent(t *testing.T) {
	assert.NoError(t, ValidatePostContent("some reply"))

	assert.Error(t, ValidatePostContent(""))
	assert.Error(t, ValidatePostContent("   \n  "))
}
