// Package validation holds input validation helpers shared by the
// HTTP handlers and services.
package validation

import (
	"regexp"
	"strings"

	"pawhaven/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const minPasswordLength = 6

// Email checks that an address is non-empty and plausibly formed.
func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.NewValidationError("Email is required")
	}
	if !emailRegex.MatchString(email) {
		return models.NewValidationError("Invalid email address")
	}
	return nil
}

// Password enforces the minimum password length.
func Password(password string) error {
	if len(password) < minPasswordLength {
		return models.NewValidationError("Password must be at least 6 characters")
	}
	return nil
}

// Name checks that a display name is present.
func Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("Name is required")
	}
	return nil
}

// Role checks that a role is one of the supported account roles.
func Role(role string) error {
	if !models.ValidRole(role) {
		return models.NewValidationError("Role must be adopter or shelter")
	}
	return nil
}

// MessageText checks that a message body is present and within bounds.
func MessageText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.NewValidationError("Message text is required")
	}
	if len(text) > 2000 {
		return models.NewValidationError("Message is too long")
	}
	return nil
}
