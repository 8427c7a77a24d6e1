package domain

import (
	"errors"
	"strings"
)

var ErrNotFound = errors.New("not found")

// FieldError describes one rejected input field. Field is the JSON path
// (e.g. "coordinates.latitude", "roomCategories[0].categoryName").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationError is returned for bad input. A non-empty Reference means the
// input was well formed but pointed at a record that does not exist.
type ValidationError struct {
	Message   string
	Fields    []FieldError
	Reference string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Dangling() bool { return e.Reference != "" }

// StoreError wraps a failure of the underlying document store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }
