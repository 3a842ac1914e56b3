package models

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheMiss indicates that the key is absent or its entry is no longer valid
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidPattern indicates that an invalidation pattern could not be compiled
	ErrInvalidPattern = errors.New("invalid cache pattern")

	// ErrNotFound indicates that the requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that request parameters failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientStock indicates that an order asks for more copies than are in stock
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrEmptyCart indicates that checkout was attempted with no items
	ErrEmptyCart = errors.New("cart is empty")

	// ErrUnauthorized indicates a missing or rejected access token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates that the caller lacks the required role
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimitExceeded indicates that rate limit has been exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// EntityError represents an error tied to a specific stored record
type EntityError struct {
	Entity  string
	ID      string
	Message string
	Err     error
}

func (e *EntityError) Error() string {
	target := e.Entity
	if e.ID != "" {
		target = fmt.Sprintf("%s %s", e.Entity, e.ID)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", target, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", target, e.Message)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// NewEntityError creates a new record-specific error
func NewEntityError(entity, id, message string, err error) *EntityError {
	return &EntityError{
		Entity:  entity,
		ID:      id,
		Message: message,
		Err:     err,
	}
}
