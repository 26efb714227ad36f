package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// runStore implements driven.RunHistoryStore over the runs table.
type runStore struct {
	store *Store
}

var _ driven.RunHistoryStore = (*runStore)(nil)

// Record inserts a run.
func (s *runStore) Record(ctx context.Context, rec domain.RunRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, mode, entries_parsed, added, removed, modified,
			committed, dry_run, version, digest, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode = excluded.mode,
			entries_parsed = excluded.entries_parsed,
			added = excluded.added,
			removed = excluded.removed,
			modified = excluded.modified,
			committed = excluded.committed,
			dry_run = excluded.dry_run,
			version = excluded.version,
			digest = excluded.digest,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`,
		rec.ID, string(rec.Mode), rec.EntriesParsed,
		rec.Counts.Added, rec.Counts.Removed, rec.Counts.Modified,
		boolToInt(rec.Committed), boolToInt(rec.DryRun),
		nullString(rec.Version.String()), nullString(rec.Digest), nullString(rec.Error),
		formatTime(rec.StartedAt), formatNullableTime(rec.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	query := `
		SELECT id, mode, entries_parsed, added, removed, modified,
			committed, dry_run, version, digest, error, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []domain.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return records, nil
}

func scanRun(rows *sql.Rows) (domain.RunRecord, error) {
	var (
		rec                     domain.RunRecord
		mode, startedAt         string
		committed, dryRun       int
		version, digest, errMsg sql.NullString
		finishedAt              sql.NullString
	)

	if err := rows.Scan(&rec.ID, &mode, &rec.EntriesParsed,
		&rec.Counts.Added, &rec.Counts.Removed, &rec.Counts.Modified,
		&committed, &dryRun, &version, &digest, &errMsg, &startedAt, &finishedAt); err != nil {
		return rec, fmt.Errorf("scanning run: %w", err)
	}

	rec.Mode = domain.RunMode(mode)
	rec.Committed = committed == 1
	rec.DryRun = dryRun == 1
	rec.Version = domain.VersionToken(version.String)
	rec.Digest = digest.String
	rec.Error = errMsg.String
	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		rec.StartedAt = t
	}
	rec.FinishedAt = parseNullableTime(finishedAt)

	return rec, nil
}

// timeLayout has fixed-width fractional seconds so stored values sort
// chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatNullableTime formats a time, or returns nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseNullableTime returns the zero time for NULL or unparsable values.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
