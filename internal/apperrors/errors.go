package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds that map one-to-one onto a status
// code and a fixed message.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUserNotFound       = errors.New("User not found")
	ErrChatNotFound       = errors.New("Chat item not found")
	ErrChatForbidden      = errors.New("You do not have permission to view this chat item")
)

// ValidationError reports one or more policy violations in client input.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	return fmt.Sprintf("validation failed: %d errors", len(e.Messages))
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// ConflictError reports a uniqueness violation on signup.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(field, message string) *ConflictError {
	return &ConflictError{Field: field, Message: message}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
