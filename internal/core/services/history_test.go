package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

type failingRunStore struct{}

func (failingRunStore) Record(context.Context, domain.RunRecord) error {
	return errors.New("boom")
}

func (failingRunStore) List(context.Context, int) ([]domain.RunRecord, error) {
	return nil, errors.New("boom")
}

func TestHistoryService_RecordAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(memory.NewRunStore())
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, svc.RecordRun(ctx, &domain.RunResult{
		RunID: "a", Mode: domain.RunModeBaseline, EntriesParsed: 3, Committed: true,
		StartedAt: started, FinishedAt: started.Add(time.Second),
	}, nil))

	result := &domain.RunResult{
		RunID:  "b",
		Mode:   domain.RunModeComparison,
		Report: &domain.Report{Counts: domain.Counts{Added: 1, Modified: 2}},
	}
	require.NoError(t, svc.RecordRun(ctx, result, &domain.CommitError{Result: result, Err: domain.ErrVersionConflict}))

	runs, err := svc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, domain.Counts{Added: 1, Modified: 2}, runs[0].Counts)
	assert.Contains(t, runs[0].Error, "baseline not committed")
	assert.False(t, runs[0].Committed)

	assert.Equal(t, "a", runs[1].ID)
	assert.Equal(t, 3, runs[1].EntriesParsed)
	assert.Empty(t, runs[1].Error)
}

func TestHistoryService_NilResult(t *testing.T) {
	svc := NewHistoryService(failingRunStore{})

	assert.NoError(t, svc.RecordRun(context.Background(), nil, nil))
}

func TestHistoryService_StoreErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(failingRunStore{})

	err := svc.RecordRun(ctx, &domain.RunResult{RunID: "x"}, nil)
	assert.ErrorContains(t, err, "record run")

	_, err = svc.List(ctx, 1)
	assert.ErrorContains(t, err, "list runs")
}
