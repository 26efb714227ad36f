package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

func TestExtractReferenceNumber(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid entry URI",
			uri:      "sanctrack://baseline/entries/QDi.001",
			expected: "QDi.001",
		},
		{
			name:     "invalid prefix",
			uri:      "file://baseline/entries/QDi.001",
			expected: "",
		},
		{
			name:     "baseline URI",
			uri:      "sanctrack://baseline",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractReferenceNumber(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func storedBaseline() *domain.StoredSnapshot {
	return &domain.StoredSnapshot{
		Entries: domain.Snapshot{
			{Type: domain.EntityIndividual, ReferenceNumber: "QDi.001", Name: "ALPHA ONE", Aliases: []string{"A1"}},
			{Type: domain.EntityIndividual, ReferenceNumber: "QDi.002", Name: "BRAVO TWO"},
		},
		Version: "sha256:feed",
	}
}

func TestServer_handleBaselineResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil baseline service is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Tracker: &mockTrackerService{}})
		require.NoError(t, err)

		_, err = server.handleBaselineResource(ctx, makeReadResourceRequest("sanctrack://baseline"))
		require.Error(t, err)
	})

	t.Run("returns the stored snapshot", func(t *testing.T) {
		baseline := &mockBaselineService{stored: storedBaseline(), location: "file /tmp/x.json"}
		server, err := NewServer(&Ports{Tracker: &mockTrackerService{}, Baseline: baseline})
		require.NoError(t, err)

		result, err := server.handleBaselineResource(ctx, makeReadResourceRequest("sanctrack://baseline"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, text, `"reference_number": "QDi.001"`)
		assert.Contains(t, text, `"version": "sha256:feed"`)
		assert.Contains(t, text, `"count": 2`)
		assert.Contains(t, text, "file /tmp/x.json")
	})

	t.Run("missing baseline is not found", func(t *testing.T) {
		baseline := &mockBaselineService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Tracker: &mockTrackerService{}, Baseline: baseline})
		require.NoError(t, err)

		_, err = server.handleBaselineResource(ctx, makeReadResourceRequest("sanctrack://baseline"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		baseline := &mockBaselineService{err: domain.ErrCorruptSnapshot}
		server, err := NewServer(&Ports{Tracker: &mockTrackerService{}, Baseline: baseline})
		require.NoError(t, err)

		_, err = server.handleBaselineResource(ctx, makeReadResourceRequest("sanctrack://baseline"))
		assert.ErrorIs(t, err, domain.ErrCorruptSnapshot)
	})
}

func TestServer_handleBaselineEntryResource(t *testing.T) {
	ctx := context.Background()
	baseline := &mockBaselineService{stored: storedBaseline()}
	server, err := NewServer(&Ports{Tracker: &mockTrackerService{}, Baseline: baseline})
	require.NoError(t, err)

	t.Run("returns the entry", func(t *testing.T) {
		result, err := server.handleBaselineEntryResource(ctx,
			makeReadResourceRequest("sanctrack://baseline/entries/QDi.002"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "BRAVO TWO")
		assert.Contains(t, result.Contents[0].Text, `"aliases": []`)
	})

	t.Run("unknown reference is not found", func(t *testing.T) {
		_, err := server.handleBaselineEntryResource(ctx,
			makeReadResourceRequest("sanctrack://baseline/entries/QDi.999"))
		require.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := server.handleBaselineEntryResource(ctx, makeReadResourceRequest("sanctrack://other"))
		require.Error(t, err)
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil history service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Tracker: &mockTrackerService{}})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("sanctrack://history"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns recent runs", func(t *testing.T) {
		history := &mockHistoryService{records: []domain.RunRecord{{
			ID:        "run-1",
			Mode:      domain.RunModeComparison,
			Counts:    domain.Counts{Modified: 4},
			Committed: true,
			StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}}}
		server, err := NewServer(&Ports{Tracker: &mockTrackerService{}, History: history})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("sanctrack://history"))

		require.NoError(t, err)
		assert.Equal(t, historyLimit, history.lastLimit)
		assert.Contains(t, result.Contents[0].Text, `"id": "run-1"`)
		assert.Contains(t, result.Contents[0].Text, `"modified": 4`)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		history := &mockHistoryService{err: errors.New("database error")}
		server, err := NewServer(&Ports{Tracker: &mockTrackerService{}, History: history})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("sanctrack://history"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database error")
	})
}
