// Package errors provides application-level error types that the HTTP layer
// maps onto status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeBadGateway   ErrorType = "bad_gateway"
	ErrorTypeInternal     ErrorType = "internal_error"
)

// AppError is an error that carries the HTTP status it should surface as.
type AppError struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(t ErrorType, code int, message string, cause []error) *AppError {
	var err error
	if len(cause) > 0 {
		err = cause[0]
	}
	return &AppError{Type: t, Message: message, Code: code, Err: err}
}

func NewValidationError(message string, cause ...error) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, cause)
}

func NewNotFoundError(message string, cause ...error) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, cause)
}

func NewConflictError(message string, cause ...error) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, cause)
}

func NewUnauthorizedError(message string, cause ...error) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, cause)
}

func NewBadGatewayError(message string, cause ...error) *AppError {
	return newAppError(ErrorTypeBadGateway, http.StatusBadGateway, message, cause)
}

func NewInternalError(message string, cause ...error) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, cause)
}

// GetAppError extracts an AppError from err, wrapping anything else as internal.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("An unexpected error occurred", err)
}
