package pipeline

import (
	"fmt"
)

// Failure taxonomy surfaced to callers. Auditor failures are deliberately
// absent: they degrade into a fallback assessment and never abort a request.

type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Detail)
}

type WorkerUnavailableError struct {
	Err error
}

func (e *WorkerUnavailableError) Error() string {
	return fmt.Sprintf("worker unavailable: %v", e.Err)
}

func (e *WorkerUnavailableError) Unwrap() error {
	return e.Err
}

type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to store audit record: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("request cancelled: %v", e.Err)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}
