package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Snapshot stores return it when no baseline has been recorded yet.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedDocument indicates the sanctions document could not be parsed.
	// It is fatal for the current run: nothing is read, diffed or written.
	ErrMalformedDocument = errors.New("malformed sanctions document")

	// ErrCorruptSnapshot indicates a stored snapshot could not be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrVersionConflict indicates the stored snapshot changed since it was read.
	// The write was rejected and the baseline was left as it was.
	ErrVersionConflict = errors.New("snapshot version conflict")

	// ErrBaselineNotCommitted indicates a run computed its result but could not
	// persist the new baseline.
	ErrBaselineNotCommitted = errors.New("baseline not committed")

	// ErrUnsupportedBackend indicates an unknown snapshot store backend.
	ErrUnsupportedBackend = errors.New("unsupported store backend")

	// ErrBackendNotConfigured indicates a backend is selected but its settings are incomplete.
	ErrBackendNotConfigured = errors.New("store backend not configured")
)

// CommitError reports a run whose comparison completed but whose new baseline
// could not be written. Result holds everything computed before the write, so
// callers can still show the report while telling the user storage is now stale.
type CommitError struct {
	Result *RunResult
	Err    error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s: %v", ErrBaselineNotCommitted, e.Err)
}

// Unwrap exposes both the commit sentinel and the underlying store failure.
func (e *CommitError) Unwrap() []error {
	return []error{ErrBaselineNotCommitted, e.Err}
}

// IsConflict reports whether err is (or wraps) a version conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
