package transport

import "fmt"

type ErrorType string

const (
	ErrTypeRequestFailed     ErrorType = "REQUEST_FAILED"
	ErrTypeMalformedResponse ErrorType = "MALFORMED_RESPONSE"
)

// Error is returned by every Client method. Status is 0 when no response arrived.
type Error struct {
	Type      ErrorType
	Operation string
	Status    int
	Cause     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Cause != nil:
		return fmt.Sprintf("%s: %s (status %d): %v", e.Operation, e.Type, e.Status, e.Cause)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Operation, e.Type, e.Status)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Type, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Type)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func requestFailed(op string, status int, cause error) *Error {
	return &Error{Type: ErrTypeRequestFailed, Operation: op, Status: status, Cause: cause}
}

func malformed(op string, status int, cause error) *Error {
	return &Error{Type: ErrTypeMalformedResponse, Operation: op, Status: status, Cause: cause}
}
