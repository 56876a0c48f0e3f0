package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes sent to clients.
const (
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeValidation   = "validation_failed"
	CodeUnauthorized = "unauthorized"
	CodeInvalidImage = "invalid_image"
	CodeStorage      = "storage_error"
	CodeDatabase     = "database_error"
	CodePartial      = "partial_failure"
	CodeInternal     = "internal_error"
)

type AppError struct {
	Code    string
	Message string
	Err     error
	// Fields carries per-field messages for validation failures.
	Fields map[string]string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

var (
	ErrNotFound = func(what string, err error) *AppError {
		return &AppError{Code: CodeNotFound, Message: what + " not found", Err: err}
	}
	ErrConflict = func(what string, err error) *AppError {
		return &AppError{Code: CodeConflict, Message: what + " already exists", Err: err}
	}
	ErrValidation = func(fields map[string]string) *AppError {
		return &AppError{Code: CodeValidation, Message: "Some fields are invalid", Fields: fields}
	}
	ErrUnauthorized = func(err error) *AppError {
		return &AppError{Code: CodeUnauthorized, Message: "Invalid or missing credentials", Err: err}
	}
	ErrInvalidImage = func(err error) *AppError {
		return &AppError{Code: CodeInvalidImage, Message: "The image could not be processed", Err: err}
	}
	ErrStorage = func(err error) *AppError {
		return &AppError{Code: CodeStorage, Message: "Object storage request failed", Err: err}
	}
	ErrDatabase = func(err error) *AppError {
		return &AppError{Code: CodeDatabase, Message: "Document store request failed", Err: err}
	}
	ErrPartial = func(err error) *AppError {
		return &AppError{Code: CodePartial, Message: "Some items could not be deleted", Err: err}
	}
	ErrInternal = func(err error) *AppError {
		return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
	}
)

// CodeOf returns the AppError code in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Is reports whether err carries an AppError with the given code.
func Is(err error, code string) bool {
	return CodeOf(err) == code
}
