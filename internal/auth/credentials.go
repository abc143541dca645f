package auth

import (
	"strings"
	"unicode/utf8"
)

const MinPasswordLength = 6

// Credentials is what the auth form collects. Nothing is checked against a
// user database; only the shape of the input is validated.
type Credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidationError is an inline form message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func ValidateCredentials(c Credentials, signup bool) error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return &ValidationError{Message: "Email and password are required"}
	}
	if signup && strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Message: "Name is required for signup"}
	}
	if utf8.RuneCountInString(c.Password) < MinPasswordLength {
		return &ValidationError{Message: "Password must be at least 6 characters"}
	}
	return nil
}

// DisplayName falls back to the local part of the email when no name was given.
func DisplayName(c Credentials) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	email := strings.TrimSpace(c.Email)
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
