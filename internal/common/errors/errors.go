// Package errors provides standardized error handling for the function handlers.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// Kind is the error discriminator carried in the HTTP error envelope.
type Kind string

const (
	KindBadRequest       Kind = "bad-request"
	KindMethodNotAllowed Kind = "method-not-allowed"
	KindInternal         Kind = "internal"
)

// StandardError represents a structured application error.
type StandardError struct {
	Kind      Kind      `json:"error"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Kind, e.Message)
}

// HTTPStatus maps the error kind to the response status code.
func (e *StandardError) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return 400
	case KindMethodNotAllowed:
		return 405
	default:
		return 500
	}
}

// Envelope is the uniform error body returned by every handler.
type Envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ToEnvelope converts the error into the wire envelope.
func (e *StandardError) ToEnvelope() Envelope {
	return Envelope{
		Error:   string(e.Kind),
		Message: e.Message,
		Details: e.Details,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewBadRequestError reports missing or invalid required fields (caller fault).
func NewBadRequestError(message string) *StandardError {
	return &StandardError{
		Kind:      KindBadRequest,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMethodNotAllowedError reports transport-level misuse.
func NewMethodNotAllowedError(method string) *StandardError {
	return &StandardError{
		Kind:      KindMethodNotAllowed,
		Message:   "Method not allowed",
		Details:   fmt.Sprintf("method: %s", method),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps any collaborator failure (provider, database, gateway).
func NewInternalError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Kind:      KindInternal,
		Message:   message,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// AsStandard returns err as a *StandardError, wrapping foreign errors as internal.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	if std, ok := err.(*StandardError); ok {
		return std
	}
	return NewInternalError("Unexpected error", err)
}
