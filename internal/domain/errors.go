package domain

import "errors"

var (
	// ErrDuplicatePhone is returned when the normalized phone number is
	// already registered.
	ErrDuplicatePhone = errors.New("phone number already registered")

	// ErrNotFound covers unknown registration ids and invitation codes.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries a user-facing (Arabic) message for bad input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
