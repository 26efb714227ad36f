package cli

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
)

// mockTrackerService implements driving.TrackerService for CLI tests.
type mockTrackerService struct {
	result *domain.RunResult
	report *domain.Report
	err    error

	calls    int
	lastDoc  string
	lastOpts driving.TrackOptions
	compared []string
}

func (m *mockTrackerService) Track(_ context.Context, doc io.Reader, opts driving.TrackOptions) (*domain.RunResult, error) {
	data, _ := io.ReadAll(doc)
	m.calls++
	m.lastDoc = string(data)
	m.lastOpts = opts
	if m.result == nil && m.err == nil {
		return &domain.RunResult{RunID: "run-1", Mode: domain.RunModeBaseline, DryRun: opts.DryRun}, nil
	}
	return m.result, m.err
}

func (m *mockTrackerService) Compare(_ context.Context, oldDoc, newDoc io.Reader) (*domain.Report, error) {
	oldData, _ := io.ReadAll(oldDoc)
	newData, _ := io.ReadAll(newDoc)
	m.compared = []string{string(oldData), string(newData)}
	if m.report == nil && m.err == nil {
		return &domain.Report{}, nil
	}
	return m.report, m.err
}

// mockBaselineService implements driving.BaselineService for CLI tests.
type mockBaselineService struct {
	stored *domain.StoredSnapshot
	err    error
}

func (m *mockBaselineService) Current(_ context.Context) (*domain.StoredSnapshot, error) {
	if m.stored == nil && m.err == nil {
		return nil, domain.ErrNotFound
	}
	return m.stored, m.err
}

func (m *mockBaselineService) Location() string {
	return "file /tmp/baseline.json"
}

// mockHistoryService implements driving.HistoryService for CLI tests.
type mockHistoryService struct {
	records   []domain.RunRecord
	err       error
	lastLimit int
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

// mockSettingsService implements driving.SettingsService for CLI tests.
type mockSettingsService struct {
	settings *domain.AppSettings
	values   map[string]string
	setErr   error
	set      map[string]string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings == nil {
		s := domain.DefaultAppSettings()
		return &s, nil
	}
	return m.settings, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Values() map[string]string {
	return m.values
}

func (m *mockSettingsService) ConfigPath() string {
	return "/tmp/sanctrack/config.toml"
}

// testMocks holds the mocks installed by setupTestServices.
type testMocks struct {
	tracker  *mockTrackerService
	baseline *mockBaselineService
	history  *mockHistoryService
	settings *mockSettingsService
}

// setupTestServices installs fresh mocks and returns a cleanup function
// that restores the previous services and resets command flags.
func setupTestServices() (*testMocks, func()) {
	prevTracker, prevBaseline, prevHistory, prevSettings := trackerService, baselineService, historyService, settingsService
	prevStoreErr, prevBootstrap := storeErr, bootstrap

	mocks := &testMocks{
		tracker:  &mockTrackerService{},
		baseline: &mockBaselineService{},
		history:  &mockHistoryService{},
		settings: &mockSettingsService{},
	}
	SetServices(Services{
		Tracker:  mocks.tracker,
		Baseline: mocks.baseline,
		History:  mocks.history,
		Settings: mocks.settings,
	})
	bootstrap = nil

	return mocks, func() {
		trackerService, baselineService, historyService, settingsService = prevTracker, prevBaseline, prevHistory, prevSettings
		storeErr, bootstrap = prevStoreErr, prevBootstrap
		closeServices = nil
		resetFlags()
	}
}

func resetFlags() {
	verbose = false
	configDir = ""
	runDryRun, runFormat, runFilter, runDiffs, runInteractive = false, "", "", false, false
	diffFormat, diffFilter, diffDiffs, diffInteractive = "", "", false, false
	baselineFormat, baselineEntries = "", false
	historyLimit, historyFormat = 20, ""
	watchDryRun = false
	rootCmd.SetArgs(nil)
	rootCmd.SetIn(nil)
}

func sampleRunResult() *domain.RunResult {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.RunResult{
		RunID:           "run-42",
		Mode:            domain.RunModeComparison,
		EntriesParsed:   2,
		PreviousEntries: 2,
		Committed:       true,
		Digest:          "sha256:abc",
		PreviousVersion: "1",
		Version:         "2",
		StartedAt:       started,
		FinishedAt:      started.Add(time.Second),
		Report: &domain.Report{
			Counts: domain.Counts{Added: 1, Removed: 1},
			Added: []domain.Entry{
				{Type: domain.EntityIndividual, ReferenceNumber: "QDi.002", Name: "BRAVO"},
			},
			Removed: []domain.Entry{
				{Type: domain.EntityIndividual, ReferenceNumber: "QDi.001", Name: "ALPHA"},
			},
			Modified: []domain.Modification{},
		},
	}
}
