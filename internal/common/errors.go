// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input schema errors.
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyDataset  = errors.New("dataset contains no records")
	ErrMalformedRow  = errors.New("malformed row")

	// Feature errors.
	ErrUnknownCategory = errors.New("value not seen during encoder fit")
	ErrNotFitted       = errors.New("transform used before fit")

	// Query errors.
	ErrInvalidInput           = errors.New("invalid input")
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrUnknownItem            = errors.New("unknown item")
	ErrClusteringNotPerformed = errors.New("clustering not yet performed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRecoverable reports whether a query can be abandoned with a message
// instead of terminating the process.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrUnknownItem) ||
		errors.Is(err, ErrClusteringNotPerformed)
}

// UserMessage extracts the message meant for the user, falling back to the
// error text.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}
