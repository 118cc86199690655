package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy of the reconciliation pipeline and the store layer.
var (
	// ErrParse line-item text could not be parsed
	ErrParse = errors.New("parse failed")

	// ErrReference a natural id could not be resolved
	ErrReference = errors.New("reference not resolvable")

	// ErrValidation a field constraint was violated
	ErrValidation = errors.New("validation failed")

	// ErrConnectivity the store is unreachable
	ErrConnectivity = errors.New("store unreachable")
)

// ParseError represents a failure to parse the embedded line-item text of
// an order
type ParseError struct {
	OrderID     string
	Raw         string
	OriginalErr error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("parse error for order %s: %v", e.OrderID, e.OriginalErr)
	}
	return fmt.Sprintf("parse error for order %s", e.OrderID)
}

// Unwrap returns the original error
func (e *ParseError) Unwrap() error {
	return e.OriginalErr
}

// Is reports whether the error is a parse error
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new parse error
func NewParseError(orderID, raw string, err error) *ParseError {
	return &ParseError{
		OrderID:     orderID,
		Raw:         raw,
		OriginalErr: err,
	}
}

// ReferenceError represents an unresolvable customer or product natural id
type ReferenceError struct {
	Entity    string
	NaturalID string
	OrderID   string
}

// Error implements the error interface
func (e *ReferenceError) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("%s %s not found (order %s)", e.Entity, e.NaturalID, e.OrderID)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.NaturalID)
}

// Is reports whether the error is a reference error
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// NewReferenceError creates a new reference error
func NewReferenceError(entity, naturalID, orderID string) *ReferenceError {
	return &ReferenceError{
		Entity:    entity,
		NaturalID: naturalID,
		OrderID:   orderID,
	}
}

// ValidationError represents a violated field constraint
type ValidationError struct {
	Entity    string
	NaturalID string
	Field     string
	Message   string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.NaturalID != "" {
		return fmt.Sprintf("%s %s: %s %s", e.Entity, e.NaturalID, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s %s", e.Entity, e.Field, e.Message)
}

// Is reports whether the error is a validation error
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new validation error
func NewValidationError(entity, naturalID, field, message string) *ValidationError {
	return &ValidationError{
		Entity:    entity,
		NaturalID: naturalID,
		Field:     field,
		Message:   message,
	}
}

// ConnectivityError represents an unreachable store; it is the only fatal
// error class of a pipeline run
type ConnectivityError struct {
	OriginalErr error
}

// Error implements the error interface
func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("store unreachable: %v", e.OriginalErr)
}

// Unwrap returns the original error
func (e *ConnectivityError) Unwrap() error {
	return e.OriginalErr
}

// Is reports whether the error is a connectivity error
func (e *ConnectivityError) Is(target error) bool {
	return target == ErrConnectivity
}

// NewConnectivityError creates a new connectivity error
func NewConnectivityError(err error) *ConnectivityError {
	return &ConnectivityError{OriginalErr: err}
}
