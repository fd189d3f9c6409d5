package store

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Business-rule failures are detected before any mutation and abort the
// whole transaction. Callers match them with errors.Is; anything else
// coming out of a store method is an unexpected storage failure.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means the operation is not legal for the entity's
	// current lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrBookUnavailable means the book has no available copies left.
	ErrBookUnavailable = errors.New("no available copies")
	// ErrDuplicateReservation means the member already holds a pending
	// reservation for the book.
	ErrDuplicateReservation = errors.New("duplicate reservation")
	// ErrFeeBalanceOutstanding blocks pickup confirmation while the member
	// owes a positive fee balance.
	ErrFeeBalanceOutstanding = errors.New("outstanding fee balance")
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the operation that produced it so the caller
// can route the messages to the right form, instead of a shared
// error bag keyed by magic strings.
type ValidationError struct {
	Op     string       `json:"op"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", e.Op, strings.Join(msgs, ", "))
}

// Add appends a field error and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// NewValidationError starts an empty error for the given operation tag.
func NewValidationError(op string) *ValidationError {
	return &ValidationError{Op: op}
}
