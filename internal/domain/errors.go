package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoItems aborts a planning run when the catalog is empty.
	ErrNoItems = errors.New("catalog has no items")
	// ErrInvalidItem marks an item whose stock figures cannot be planned.
	ErrInvalidItem = errors.New("invalid item")
)

// DataQualityError records an input problem that was worked around with a guarded default.
type DataQualityError struct {
	ItemID int64
	Field  string
	Reason string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("item %d: %s: %s", e.ItemID, e.Field, e.Reason)
}

// FieldProblem is a single invalid scenario field.
type FieldProblem struct {
	Field   string
	Message string
}

// ConfigurationError rejects a scenario definition before any projection is computed.
type ConfigurationError struct {
	Scenario string
	Problems []FieldProblem
}

func (e *ConfigurationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s %s", p.Field, p.Message))
	}
	return fmt.Sprintf("scenario %q: %s", e.Scenario, strings.Join(parts, "; "))
}

// Add appends a problem for the given field.
func (e *ConfigurationError) Add(field, message string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Message: message})
}

// HasProblems reports whether any field was rejected.
func (e *ConfigurationError) HasProblems() bool {
	return len(e.Problems) > 0
}

// ItemError wraps a per-item failure so the batch can skip that item.
type ItemError struct {
	ItemID int64
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
