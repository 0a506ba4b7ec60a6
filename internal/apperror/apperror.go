package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries the HTTP mapping of a failure along with a user-facing title and message.
type AppError struct {
	Code       string
	Title      string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code so wrapped copies of a predefined error compare equal.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(status int, code, title, message string) *AppError {
	return &AppError{Code: code, Title: title, Message: message, HTTPStatus: status}
}

// Wrap copies base with a new message and cause.
func Wrap(base *AppError, message string, err error) *AppError {
	out := *base
	if message != "" {
		out.Message = message
	}
	out.Err = err
	return &out
}

var (
	ErrInvalidInput = New(http.StatusBadRequest, "validation_error", "Datos inválidos", "payload validation failed")
	ErrUnauthorized = New(http.StatusUnauthorized, "unauthorized", "Sesión requerida", "authentication required")
	ErrForbidden    = New(http.StatusForbidden, "forbidden", "Permisos insuficientes", "insufficient permissions")
	ErrNotFound     = New(http.StatusNotFound, "not_found", "No encontrado", "resource not found")
	ErrConflict     = New(http.StatusConflict, "conflict", "Conflicto", "the request conflicts with the current state")
	ErrInternal     = New(http.StatusInternalServerError, "internal_error", "Error inesperado", "an unexpected error occurred")
)

// From returns err as an AppError, defaulting to ErrInternal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrInternal, "", err)
}
