package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")

	// Listing errors
	ErrListingNotFound = fmt.Errorf("listing %w", ErrNotFound)
	ErrMediaNotFound   = fmt.Errorf("media %w", ErrNotFound)
	ErrListingSold     = fmt.Errorf("listing is sold: %w", ErrConflict)

	// Enquiry errors
	ErrEnquiryNotFound = fmt.Errorf("enquiry %w", ErrNotFound)

	// Auth errors
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrUserAlreadyExists  = fmt.Errorf("user already exists: %w", ErrConflict)
	ErrAccountDisabled    = fmt.Errorf("account disabled: %w", ErrForbidden)

	// Payment errors
	ErrPaymentNotFound     = fmt.Errorf("payment %w", ErrNotFound)
	ErrPaymentNotPending   = fmt.Errorf("payment is not pending: %w", ErrConflict)
	ErrAlreadyPublished    = fmt.Errorf("listing is already public: %w", ErrConflict)
	ErrPaymentVerification = errors.New("payment verification failed")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
)

// ValidationError carries per-field messages. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records another field failure
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = message
	return e
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
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

// Is makes errors.Is(err, ErrInvalidInput) true
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
