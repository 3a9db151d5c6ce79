package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
		status   int
	}{
		{name: "invalid ticket", err: NewInvalidTicket("title or description were empty"), sentinel: ErrInvalidTicket, code: "INVALID_TICKET", status: http.StatusBadRequest},
		{name: "unknown user", err: NewUnknownUser("ghost"), sentinel: ErrUnknownUser, code: "UNKNOWN_USER", status: http.StatusNotFound},
		{name: "ticket not found", err: NewTicketNotFound(42), sentinel: ErrTicketNotFound, code: "TICKET_NOT_FOUND", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Fatalf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			wrapped := fmt.Errorf("create ticket: %w", tt.err)
			de := ToDomainError(wrapped)
			if de.Code != tt.code {
				t.Fatalf("code = %q, expected %q", de.Code, tt.code)
			}
			if de.HTTPStatus != tt.status {
				t.Fatalf("status = %d, expected %d", de.HTTPStatus, tt.status)
			}
		})
	}
}

func TestToDomainErrorMapsUnknownErrorsToInternal(t *testing.T) {
	cause := errors.New("connection reset")
	de := ToDomainError(cause)
	if de.Code != "INTERNAL_ERROR" || de.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected mapping: %+v", de)
	}
	if !errors.Is(de, cause) {
		t.Fatal("internal error should wrap its cause")
	}
	if ToDomainError(nil) != nil {
		t.Fatal("nil error should map to nil")
	}
}

func TestUnknownUserMessage(t *testing.T) {
	err := NewUnknownUser("Mock User")
	if got := err.Error(); got != `user "Mock User" not found: unknown user` {
		t.Fatalf("Error() = %q", got)
	}
}
