package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Distinct tests that every sentinel is unique.
func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrMalformedDocument,
		ErrCorruptSnapshot,
		ErrVersionConflict,
		ErrBaselineNotCommitted,
		ErrUnsupportedBackend,
		ErrBackendNotConfigured,
	}

	for i, a := range all {
		assert.NotEmpty(t, a.Error())
		for j, b := range all {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

func TestCommitError_UnwrapsBoth(t *testing.T) {
	storeErr := fmt.Errorf("write blob: %w", ErrVersionConflict)
	err := error(&CommitError{Result: &RunResult{RunID: "r1"}, Err: storeErr})

	assert.ErrorIs(t, err, ErrBaselineNotCommitted)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.True(t, IsConflict(err))
	assert.Contains(t, err.Error(), "baseline not committed")
	assert.Contains(t, err.Error(), "write blob")

	var ce *CommitError
	if assert.True(t, errors.As(fmt.Errorf("run: %w", err), &ce)) {
		assert.Equal(t, "r1", ce.Result.RunID)
	}
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(ErrVersionConflict))
	assert.True(t, IsConflict(fmt.Errorf("s3: %w", ErrVersionConflict)))
	assert.False(t, IsConflict(ErrNotFound))
	assert.False(t, IsConflict(nil))
}
