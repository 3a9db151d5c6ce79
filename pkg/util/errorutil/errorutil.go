package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for the ticket error kinds. DomainError values built by the
// constructors below unwrap to these so callers can match with errors.Is.
var (
	ErrInvalidTicket  = errors.New("invalid ticket")
	ErrUnknownUser    = errors.New("unknown user")
	ErrTicketNotFound = errors.New("ticket not found")
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewInvalidTicket reports a ticket whose title or description is blank.
func NewInvalidTicket(message string) error {
	return &DomainError{
		Code:       "INVALID_TICKET",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        ErrInvalidTicket,
	}
}

// NewUnknownUser reports a username the user directory cannot resolve.
func NewUnknownUser(username string) error {
	return &DomainError{
		Code:       "UNKNOWN_USER",
		Message:    fmt.Sprintf("user %q not found", username),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"username": username},
		Err:        ErrUnknownUser,
	}
}

// NewTicketNotFound reports a ticket id missing from the ticket store.
func NewTicketNotFound(id int64) error {
	return &DomainError{
		Code:       "TICKET_NOT_FOUND",
		Message:    fmt.Sprintf("no ticket found for id %d", id),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"ticket_id": id},
		Err:        ErrTicketNotFound,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
