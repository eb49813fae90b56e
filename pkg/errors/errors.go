package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError describes a validation failure attached to a single form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Fields  []FieldError           `json:"fields,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so callers can test against the predefined values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusUnprocessableEntity, "validation failed")
	ErrBadRequest         = New("BAD_REQUEST", http.StatusBadRequest, "invalid request")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrNetwork            = New("NETWORK_ERROR", http.StatusBadGateway, "registry unreachable")
	ErrUpstream           = New("UPSTREAM_ERROR", http.StatusBadGateway, "registry rejected the request")
	ErrPartialFailure     = New("PARTIAL_FAILURE", http.StatusBadGateway, "operation partially applied")
	ErrSessionExpired     = New("SESSION_NOT_FOUND", http.StatusNotFound, "wizard session not found or expired")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Coder is implemented by richer error types that know their API representation.
type Coder interface {
	AppError() *Error
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var c Coder
	if errors.As(err, &c) {
		if e := c.AppError(); e != nil {
			return e
		}
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Validation builds a VALIDATION_ERROR carrying per-field messages.
func Validation(message string, fields []FieldError) *Error {
	e := Clone(ErrValidation, message)
	e.Fields = fields
	return e
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	return hasCode(err, ErrValidation.Code)
}

// IsNetwork reports whether err came from an unreachable or timed out registry.
func IsNetwork(err error) bool {
	return hasCode(err, ErrNetwork.Code)
}

// IsPartialFailure reports whether err describes a partially applied multi-request operation.
func IsPartialFailure(err error) bool {
	return hasCode(err, ErrPartialFailure.Code)
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	return FromError(err).Code == code
}
