package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
)

// mockTrackerService implements driving.TrackerService for testing.
type mockTrackerService struct {
	result *domain.RunResult
	report *domain.Report
	err    error

	lastDoc  string
	lastOpts driving.TrackOptions
	compared []string
}

func (m *mockTrackerService) Track(_ context.Context, doc io.Reader, opts driving.TrackOptions) (*domain.RunResult, error) {
	data, _ := io.ReadAll(doc)
	m.lastDoc = string(data)
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockTrackerService) Compare(_ context.Context, oldDoc, newDoc io.Reader) (*domain.Report, error) {
	oldData, _ := io.ReadAll(oldDoc)
	newData, _ := io.ReadAll(newDoc)
	m.compared = []string{string(oldData), string(newData)}
	return m.report, m.err
}

// mockBaselineService implements driving.BaselineService for testing.
type mockBaselineService struct {
	stored   *domain.StoredSnapshot
	err      error
	location string
}

func (m *mockBaselineService) Current(_ context.Context) (*domain.StoredSnapshot, error) {
	return m.stored, m.err
}

func (m *mockBaselineService) Location() string {
	return m.location
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	records   []domain.RunRecord
	err       error
	lastLimit int
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}
