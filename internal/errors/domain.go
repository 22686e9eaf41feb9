package errors

import (
	"fmt"
	"strings"
)

// SchemaError reports that required columns are absent from an input table.
// The missing names are always enumerated for the caller; the run is fatal
// and never retried.
type SchemaError struct {
	Columns []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Columns, ", "))
}

// NewSchemaError creates a schema error for the given missing columns
func NewSchemaError(columns ...string) *SchemaError {
	return &SchemaError{Columns: columns}
}

// MissingInputError reports that a required external file or reference-table
// key is absent from the request input set.
type MissingInputError struct {
	Key string
}

// Error implements the error interface
func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input key: %s", e.Key)
}

// NewMissingInputError creates a missing input error for the given key
func NewMissingInputError(key string) *MissingInputError {
	return &MissingInputError{Key: key}
}

// ProcessingError wraps any other failure during pipeline computation.
// The original cause is surfaced, never swallowed.
type ProcessingError struct {
	Op    string
	Cause error
}

// Error implements the error interface
func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processing failed during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("processing failed during %s", e.Op)
}

// Unwrap allows errors.Is and errors.As to reach the original cause
func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// NewProcessingError creates a processing error wrapping the original cause
func NewProcessingError(op string, cause error) *ProcessingError {
	return &ProcessingError{Op: op, Cause: cause}
}
