package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// TrackOptions tunes a single tracking run.
type TrackOptions struct {
	// DryRun computes the comparison without writing the new baseline.
	DryRun bool

	// Source describes where the document came from (file path, "mcp").
	// Only used for logging.
	Source string
}

// TrackerService runs the normalise, load, diff and persist pipeline.
type TrackerService interface {
	// Track normalises doc and compares it against the stored baseline, then
	// replaces the baseline. When no baseline exists the document becomes the
	// baseline and the result carries no report.
	//
	// If the comparison succeeded but the write failed, both a result and a
	// *domain.CommitError are returned.
	Track(ctx context.Context, doc io.Reader, opts TrackOptions) (*domain.RunResult, error)

	// Compare normalises two documents and diffs them without touching the store.
	Compare(ctx context.Context, oldDoc, newDoc io.Reader) (*domain.Report, error)
}

// BaselineService exposes the stored baseline.
type BaselineService interface {
	// Current returns the stored snapshot or domain.ErrNotFound.
	Current(ctx context.Context) (*domain.StoredSnapshot, error)

	// Location describes where the baseline is stored.
	Location() string
}

// HistoryService lists past runs.
type HistoryService interface {
	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
