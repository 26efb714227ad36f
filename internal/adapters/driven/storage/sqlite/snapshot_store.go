package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// snapshotStore implements driven.SnapshotBlobStore over the snapshots table.
type snapshotStore struct {
	store *Store
	key   string
}

var _ driven.SnapshotBlobStore = (*snapshotStore)(nil)

// Read returns the stored snapshot and its version.
func (s *snapshotStore) Read(ctx context.Context) ([]byte, domain.VersionToken, error) {
	var (
		data    []byte
		version int64
	)
	err := s.store.db.QueryRowContext(ctx,
		"SELECT data, version FROM snapshots WHERE key = ?", s.key,
	).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", domain.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("querying snapshot: %w", err)
	}
	return data, versionToken(version), nil
}

// Write inserts the first snapshot or updates the row whose version still
// equals expected.
func (s *snapshotStore) Write(
	ctx context.Context,
	data []byte,
	expected domain.VersionToken,
) (domain.VersionToken, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if expected.IsZero() {
		res, err := s.store.db.ExecContext(ctx, `
			INSERT INTO snapshots (key, data, version, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT(key) DO NOTHING
		`, s.key, data, now)
		if err != nil {
			return "", fmt.Errorf("inserting snapshot: %w", err)
		}
		if err := requireOneRow(res); err != nil {
			return "", err
		}
		return versionToken(1), nil
	}

	current, err := strconv.ParseInt(expected.String(), 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: token %q is not a sqlite version", domain.ErrVersionConflict, expected)
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE snapshots
		SET data = ?, version = version + 1, updated_at = ?
		WHERE key = ? AND version = ?
	`, data, now, s.key, current)
	if err != nil {
		return "", fmt.Errorf("updating snapshot: %w", err)
	}
	if err := requireOneRow(res); err != nil {
		return "", err
	}
	return versionToken(current + 1), nil
}

// Describe names the store for logs.
func (s *snapshotStore) Describe() string {
	return fmt.Sprintf("sqlite %s (key %s)", s.store.path, s.key)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n != 1 {
		return domain.ErrVersionConflict
	}
	return nil
}

func versionToken(v int64) domain.VersionToken {
	return domain.VersionToken(strconv.FormatInt(v, 10))
}
