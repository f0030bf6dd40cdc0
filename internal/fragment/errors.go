package fragment

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeTemplateUnavailable ErrorType = "TEMPLATE_UNAVAILABLE"
	ErrTypeMissingSlot         ErrorType = "MISSING_SLOT"
)

// Error describes a template that could not be fetched, parsed or filled.
// Status is the HTTP status of the fetch, 0 when no response arrived.
type Error struct {
	Type       ErrorType
	TemplateID string
	Slot       string
	Status     int
	Cause      error
}

func (e *Error) Error() string {
	if e.Type == ErrTypeMissingSlot {
		return fmt.Sprintf("template %q has no slot %q", e.TemplateID, e.Slot)
	}
	if e.Cause != nil {
		return fmt.Sprintf("template %q unavailable (status %d): %v", e.TemplateID, e.Status, e.Cause)
	}
	return fmt.Sprintf("template %q unavailable (status %d)", e.TemplateID, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsUnavailable reports whether err is a TemplateUnavailable error.
func IsUnavailable(err error) bool {
	var ferr *Error
	return errors.As(err, &ferr) && ferr.Type == ErrTypeTemplateUnavailable
}

func unavailable(templateID string, status int, cause error) *Error {
	return &Error{Type: ErrTypeTemplateUnavailable, TemplateID: templateID, Status: status, Cause: cause}
}
