package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound record not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate duplicate record
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidData malformed identifier or value rejected by the store
	ErrInvalidData = errors.New("invalid data")
)
