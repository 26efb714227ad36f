package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
)

// Ensure HistoryService implements the interfaces.
var (
	_ driving.HistoryService = (*HistoryService)(nil)
	_ driven.RunRecorder     = (*HistoryService)(nil)
)

// HistoryService records runs and lists them back.
type HistoryService struct {
	store driven.RunHistoryStore
}

// NewHistoryService creates a history service over the given store.
func NewHistoryService(store driven.RunHistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// RecordRun stores a record of the run.
func (s *HistoryService) RecordRun(ctx context.Context, result *domain.RunResult, runErr error) error {
	if result == nil {
		return nil
	}
	if err := s.store.Record(ctx, domain.NewRunRecord(result, runErr)); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	records, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return records, nil
}
