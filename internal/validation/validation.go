// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateUsername checks length and allowed characters.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, underscores or dashes")
	}
	return nil
}

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if len(email) > 255 || !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}
	return nil
}

const maxShoutLength = 500

// ValidateShoutMessage checks a shoutbox message body.
func ValidateShoutMessage(message string) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return fmt.Errorf("message is required")
	}
	if len(trimmed) > maxShoutLength {
		return fmt.Errorf("message must not exceed %d characters", maxShoutLength)
	}
	return nil
}

// ValidateThreadTitle checks a thread title.
func ValidateThreadTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return fmt.Errorf("title is required")
	}
	if len(trimmed) > 200 {
		return fmt.Errorf("title must not exceed 200 characters")
	}
	return nil
}

// ValidatePostContent checks a post body.
func ValidatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}
