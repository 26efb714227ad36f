package driven

import (
	"context"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// RunHistoryStore persists one record per tracking run.
type RunHistoryStore interface {
	// Record stores a run record.
	Record(ctx context.Context, rec domain.RunRecord) error

	// List returns the most recent records, newest first.
	// A limit of zero or less returns every record.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// RunRecorder observes finished runs. Recorders must not change the outcome
// of a run; their errors are logged by the caller and otherwise ignored.
type RunRecorder interface {
	RecordRun(ctx context.Context, result *domain.RunResult, runErr error) error
}
