package booking

import (
	"errors"
	"fmt"
)

// Error codes surfaced to the HTTP layer.
const (
	CodeSessionNotFound     = "sessionNotFound"
	CodeSlotConflict        = "slotConflict"
	CodeUnauthenticated     = "unauthenticated"
	CodeCollaboratorFailure = "collaboratorFailure"
	CodeValidationError     = "validationError"
)

// BookingError carries a stable code alongside the message so handlers can
// map failures to HTTP statuses without string matching.
type BookingError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error {
	return e.Err
}

func NewSessionNotFoundError(sessionID string) error {
	return &BookingError{
		Code:    CodeSessionNotFound,
		Message: fmt.Sprintf("booking session %s not found or expired", sessionID),
	}
}

func NewSlotConflictError() error {
	return &BookingError{
		Code:    CodeSlotConflict,
		Message: "the selected time was taken while you were booking; please pick another time",
	}
}

func NewUnauthenticatedError(msg string) error {
	return &BookingError{Code: CodeUnauthenticated, Message: msg}
}

func NewCollaboratorError(op string, err error) error {
	return &BookingError{
		Code:    CodeCollaboratorFailure,
		Message: fmt.Sprintf("failed to %s", op),
		Err:     err,
	}
}

func NewValidationError(msg string) error {
	return &BookingError{Code: CodeValidationError, Message: msg}
}

// CodeOf returns the BookingError code of err, or empty when err carries none.
func CodeOf(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
