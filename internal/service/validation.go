package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// normalizeEmail trims surrounding whitespace and lower-cases the address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateCredentials checks an already normalized email and a raw password.
func validateCredentials(email, password string) error {
	err := validate.Struct(credentials{Email: email, Password: password})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("", "invalid credentials payload")
	}
	return fieldError(fieldErrs[0])
}

// validateText returns the trimmed todo text or a ValidationError when empty.
func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if err := validate.Var(text, "required"); err != nil {
		return "", NewValidationError("text", "is required")
	}
	return text, nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return NewValidationError(field, "is required")
	case "email":
		return NewValidationError(field, "is not a valid email")
	case "min":
		return NewValidationError(field, "must be at least "+fe.Param()+" characters")
	default:
		return NewValidationError(field, "is invalid")
	}
}
