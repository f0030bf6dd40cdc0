package services

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeStorage    ErrorType = "STORAGE"
)

// ServiceError carries the failure class the HTTP layer maps to a status code.
type ServiceError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error in %s: %s (caused by: %v)", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeNotFound, Operation: operation, Message: msg}
}

func NewStorageError(operation, msg string, cause error) *ServiceError {
	return &ServiceError{Type: ErrTypeStorage, Operation: operation, Message: msg, Cause: cause}
}

// ErrorTypeOf returns the ServiceError type of err, or ErrTypeStorage for anything else.
func ErrorTypeOf(err error) ErrorType {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Type
	}
	return ErrTypeStorage
}
