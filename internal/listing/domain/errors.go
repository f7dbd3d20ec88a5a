package domain

import (
	"errors"
	"strings"
)

var (
	// ErrValidation indicates a missing or malformed field at write time.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates an id-based lookup miss.
	ErrNotFound = errors.New("listing not found")
	// ErrForbidden is returned when the caller neither owns the listing nor is an admin.
	ErrForbidden = errors.New("not allowed to modify this listing")
	// ErrSearch indicates a failure during cross-category search.
	ErrSearch = errors.New("search failed")
	// ErrUpstream indicates an image-upload or store connectivity failure.
	ErrUpstream = errors.New("upstream unavailable")
	// ErrUnknownCategory is returned for a category outside the closed set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnsupportedPredicate is returned when a filter is not recognized for a category.
	ErrUnsupportedPredicate = errors.New("unsupported filter")
)

// FieldError describes one rejected field of a submitted record.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the result of validating a record; empty means valid.
type FieldErrors []FieldError

func (fe FieldErrors) add(field, message string) FieldErrors {
	return append(fe, FieldError{Field: field, Message: message})
}

// ValidationError wraps the field errors of a rejected write.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError returns nil when there are no field errors.
func NewValidationError(fields FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
