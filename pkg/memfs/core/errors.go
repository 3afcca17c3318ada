package core

import (
	"errors"
	"fmt"
)

// Error classes surfaced by tree operations, the store and the shell.
// Callers match them with errors.Is.
var (
	ErrNameCollision    = errors.New("name already in use")
	ErrNotFound         = errors.New("not found")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrInvalidPath      = errors.New("invalid path")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidName      = fmt.Errorf("%w: invalid name", ErrInvalidInput)
	ErrIOUnavailable    = errors.New("store unavailable")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrNotConfirmed     = errors.New("operation not confirmed")
)

// OperationError provides context about a failed operation.
type OperationError struct {
	Op   string // Operation name (e.g., "mkdir", "move")
	Path string // Path or name being operated on
	Err  error  // Underlying error
}

// Error returns a formatted error message
func (e *OperationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s '%s': %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Err
}

// WrapOperationError wraps err with operation context. A nil err stays nil
// and an existing OperationError is returned unchanged.
func WrapOperationError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}
	return &OperationError{Op: op, Path: path, Err: err}
}

// RecordError reports a malformed record in a persisted store.
type RecordError struct {
	Record int // 1-based record number
	Reason string
	Cause  error
}

func (e *RecordError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("record %d: %s: %v", e.Record, e.Reason, e.Cause)
	}
	return fmt.Sprintf("record %d: %s", e.Record, e.Reason)
}

// Is makes every RecordError match ErrMalformedRecord.
func (e *RecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}
