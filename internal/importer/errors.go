package importer

import (
	"errors"
	"fmt"
)

// ErrStageFailed reports the pipeline stage that stopped an agency import.
type ErrStageFailed struct {
	Stage Stage
	error
}

func NewErrStageFailed(stage Stage, err error) *ErrStageFailed {
	return &ErrStageFailed{Stage: stage, error: fmt.Errorf("stage %s: %w", stage, err)}
}

func (e *ErrStageFailed) Unwrap() error {
	return e.error
}

// ErrWriteFailed aggregates the record writes of one file that the store
// rejected.
type ErrWriteFailed struct {
	File   string
	Failed int
	error
}

func NewErrWriteFailed(file string, errs []error) *ErrWriteFailed {
	return &ErrWriteFailed{
		File:   file,
		Failed: len(errs),
		error:  fmt.Errorf("%s: %d writes failed: %w", file, len(errs), errors.Join(errs...)),
	}
}

func (e *ErrWriteFailed) Unwrap() error {
	return e.error
}
