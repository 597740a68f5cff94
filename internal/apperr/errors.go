// Package apperr defines the error taxonomy shared by the catalog and account services.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describes one rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input fails field validation
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is allows proper error type checking with errors.Is()
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// Has reports whether the field was rejected
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// AuthorizationError is returned when the caller is unauthenticated or lacks a role
type AuthorizationError struct {
	Forbidden bool
	Reason    string
}

// Error implements the error interface for AuthorizationError
func (e *AuthorizationError) Error() string {
	if e.Forbidden {
		return "forbidden: " + e.Reason
	}
	return "unauthorized: " + e.Reason
}

// Is allows proper error type checking with errors.Is()
func (e *AuthorizationError) Is(target error) bool {
	_, ok := target.(*AuthorizationError)
	return ok
}

// NotFoundError is returned when a referenced record does not exist
type NotFoundError struct {
	Resource string
	ID       uint
}

// Error implements the error interface for NotFoundError
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: id=%d", e.Resource, e.ID)
}

// Is allows proper error type checking with errors.Is()
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// ConflictError is returned on uniqueness or referential-integrity violations
type ConflictError struct {
	Reason string
}

// Error implements the error interface for ConflictError
func (e *ConflictError) Error() string {
	return e.Reason
}

// Is allows proper error type checking with errors.Is()
func (e *ConflictError) Is(target error) bool {
	_, ok := target.(*ConflictError)
	return ok
}

// TransportError wraps a network failure talking to a remote service. Callers may retry.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface for TransportError
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying network error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is allows proper error type checking with errors.Is()
func (e *TransportError) Is(target error) bool {
	_, ok := target.(*TransportError)
	return ok
}

// Helper functions for creating errors with context

// NewValidationError creates a ValidationError for the given fields
func NewValidationError(fields ...FieldError) error {
	return &ValidationError{Fields: fields}
}

// NewFieldError creates a ValidationError for a single field
func NewFieldError(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// NewUnauthorizedError creates a 401-class AuthorizationError
func NewUnauthorizedError(reason string) error {
	return &AuthorizationError{Reason: reason}
}

// NewForbiddenError creates a 403-class AuthorizationError
func NewForbiddenError(reason string) error {
	return &AuthorizationError{Forbidden: true, Reason: reason}
}

// NewNotFoundError creates a NotFoundError
func NewNotFoundError(resource string, id uint) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewConflictError creates a ConflictError
func NewConflictError(reason string) error {
	return &ConflictError{Reason: reason}
}

// NewTransportError creates a TransportError
func NewTransportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

// Type assertion helpers for use with errors.As()

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuthorizationError checks if an error is an AuthorizationError
func IsAuthorizationError(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsForbidden checks if an error is a 403-class AuthorizationError
func IsForbidden(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae) && ae.Forbidden
}

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflictError checks if an error is a ConflictError
func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsTransportError checks if an error is a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
