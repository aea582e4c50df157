package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the record to delete does not exist.
	ErrNotFound = errors.New("student not found")
	// ErrNoData is returned by read-side consumers when there are no records.
	ErrNoData = errors.New("no data")
)

// PersistenceError wraps a storage failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ExportError wraps anything that prevented the export file from being
// written, including ErrNoData.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
