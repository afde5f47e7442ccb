package ecode

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error is a coded error. Two Errors match under errors.Is when their codes are equal.
type Error struct {
	Code    int
	Message string
	Err     error
}

// New creates a coded error, using the registered text when no message is given.
func New(code int, message ...string) *Error {
	msg := Text(code)
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	return &Error{Code: code, Message: msg}
}

// Wrap creates a coded error that wraps cause.
func Wrap(code int, cause error, message ...string) *Error {
	e := New(code, message...)
	e.Err = cause
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports code equality.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// Account error taxonomy
var (
	ErrInvalidCredentials = New(InvalidCredentials)
	ErrAccountDeactivated = New(AccountDeactivated)
	ErrNetworkUnavailable = New(NetworkUnavailable)
	ErrSessionExpired     = New(SessionExpired)
	ErrValidation         = New(ValidationFailed)
	ErrNotFound           = New(NotFound)
	ErrConflict           = New(Conflict)
	ErrAccessDenied       = New(AccessDenied)
)

// CodeOf returns the code carried by err, ServerErr when it has none.
func CodeOf(err error) int {
	if err == nil {
		return OK
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ValidationFailed
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ServerErr
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return Text(OK)
	}
	return err.Error()
}

// FromCode rebuilds a coded error from a wire response.
func FromCode(code int, message string) error {
	if code == OK {
		return nil
	}
	return New(code, message)
}

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns nil when fields is empty.
func NewValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Code == ValidationFailed
}

// Field returns the message for one field.
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}
