package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
)

// ValidationError represents a validation error on a single field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateName checks a display name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len([]rune(name)) < 3 {
		return ValidationError{Field: "name", Message: "name must be at least 3 characters"}
	}
	if len([]rune(name)) > 50 {
		return ValidationError{Field: "name", Message: "name must be at most 50 characters"}
	}
	return nil
}

// ValidatePhone checks a phone number in E.164 format
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ValidationError{Field: "phone_number", Message: "phone number is required"}
	}
	if !phoneRegex.MatchString(phone) {
		return ValidationError{Field: "phone_number", Message: "phone number must be in international format, e.g. +79001234567"}
	}
	return nil
}

// ValidateEmail checks an email address
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email_adress", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email_adress", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks password strength: at least 8 characters with an
// upper case letter, a lower case letter and a digit
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}

	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasUpper {
		return ValidationError{Field: "password", Message: "password must contain an upper case letter"}
	}
	if !hasLower {
		return ValidationError{Field: "password", Message: "password must contain a lower case letter"}
	}
	if !hasDigit {
		return ValidationError{Field: "password", Message: "password must contain a digit"}
	}
	return nil
}
