package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Error reports a creation rule that rejected its input.
type Error struct {
	Field   string
	Message string
}

func (err Error) Error() string {
	return err.Message
}

func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// IsError reports whether err is, or wraps, a validation error.
func IsError(err error) bool {
	var validationErr *Error

	return errors.As(err, &validationErr)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct checks the `validate` tags of v and returns the first violation as an *Error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate struct: %w", err)
	}

	fieldErr := fieldErrs[0]

	return NewError(fieldErr.Field(), describe(fieldErr))
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s required", fieldErr.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fieldErr.Field(), fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fieldErr.Field(), fieldErr.Tag())
	}
}
