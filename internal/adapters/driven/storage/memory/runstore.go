package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunHistoryStore = (*RunStore)(nil)

// RunStore is an in-memory run history.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.RunRecord
}

// NewRunStore creates an empty run history.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Record appends a run.
func (s *RunStore) Record(_ context.Context, rec domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, rec)
	return nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.runs)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]domain.RunRecord, 0, n)
	for i := len(s.runs) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, s.runs[i])
	}
	return result, nil
}
