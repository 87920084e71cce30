package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource (session, criterion).
	ErrNotFound = errors.New("not found")
	// ErrValidation signals criteria that cannot be searched.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidScope signals a malformed scope selector.
	ErrInvalidScope = errors.New("invalid scope")
	// ErrCollectionQuery signals a single collection query failure.
	ErrCollectionQuery = errors.New("collection query failed")
	// ErrUnknownCollection signals a ref with no backing collection.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrEmptyExport signals an export request over an empty aggregate.
	ErrEmptyExport = errors.New("nothing to export")
	// ErrSuperseded signals a search replaced by a newer one before it finished.
	ErrSuperseded = errors.New("search superseded")
)

// ValidationError wraps ErrValidation with the offending criterion.
type ValidationError struct {
	CriterionID int
	Reason      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: criterion %d: %s", ErrValidation.Error(), e.CriterionID, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for one criterion.
func NewValidationError(criterionID int, reason string) error {
	return &ValidationError{CriterionID: criterionID, Reason: reason}
}

// CollectionQueryError wraps ErrCollectionQuery with the failing collection ref.
type CollectionQueryError struct {
	Ref string
	Err error
}

func (e *CollectionQueryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCollectionQuery.Error(), e.Ref, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *CollectionQueryError) Unwrap() []error { return []error{ErrCollectionQuery, e.Err} }

// NewCollectionQueryError creates a collection query error.
func NewCollectionQueryError(ref string, err error) error {
	return &CollectionQueryError{Ref: ref, Err: err}
}
