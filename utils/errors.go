package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that maps directly onto an HTTP response.
type AppError struct {
	Status  int
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Wrap attaches the underlying cause, kept for logging only.
func (e *AppError) Wrap(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

func newAppError(status, code int, format string, args ...any) *AppError {
	return &AppError{Status: status, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation reports missing or invalid input (422).
func Validation(format string, args ...any) *AppError {
	return newAppError(http.StatusUnprocessableEntity, 42200, format, args...)
}

// Conflict reports a uniqueness violation such as a taken email (422).
func Conflict(format string, args ...any) *AppError {
	return newAppError(http.StatusUnprocessableEntity, 42201, format, args...)
}

// BadRequest reports a malformed request (400).
func BadRequest(format string, args ...any) *AppError {
	return newAppError(http.StatusBadRequest, 40000, format, args...)
}

// NotFound reports a missing resource (404).
func NotFound(format string, args ...any) *AppError {
	return newAppError(http.StatusNotFound, 40400, format, args...)
}

// Unauthorized reports missing or bad credentials (401).
func Unauthorized(format string, args ...any) *AppError {
	return newAppError(http.StatusUnauthorized, 40100, format, args...)
}

// Forbidden reports an authenticated caller acting on a resource they do not own (403).
func Forbidden(format string, args ...any) *AppError {
	return newAppError(http.StatusForbidden, 40300, format, args...)
}

// Internal reports an unexpected failure (500). The cause is logged, never returned to clients.
func Internal(err error, format string, args ...any) *AppError {
	return newAppError(http.StatusInternalServerError, 50000, format, args...).Wrap(err)
}

// AsAppError extracts an *AppError from err, converting anything else into a generic internal error.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err, "Something went wrong, please try again later.")
}
