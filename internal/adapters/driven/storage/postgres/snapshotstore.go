// Package postgres stores baseline snapshots in a PostgreSQL table.
//
// Each row carries an integer version. Updates match on it and creates use
// ON CONFLICT DO NOTHING, so a writer holding a stale token changes no rows.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotBlobStore = (*SnapshotStore)(nil)

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS sanctrack_snapshots (
	key        TEXT PRIMARY KEY,
	data       BYTEA NOT NULL,
	version    BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	selectSQL = `SELECT data, version FROM sanctrack_snapshots WHERE key = $1`

	insertSQL = `INSERT INTO sanctrack_snapshots (key, data, version, updated_at)
VALUES ($1, $2, 1, now())
ON CONFLICT (key) DO NOTHING
RETURNING version`

	updateSQL = `UPDATE sanctrack_snapshots
SET data = $1, version = version + 1, updated_at = now()
WHERE key = $2 AND version = $3
RETURNING version`
)

// SnapshotStore keeps one snapshot row per key.
type SnapshotStore struct {
	db  *sql.DB
	key string
}

// Open connects to dsn, verifies the connection and creates the table.
// The caller owns the returned *sql.DB.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres needs a dsn", domain.ErrBackendNotConfigured)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the snapshots table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create snapshots table: %w", err)
	}
	return nil
}

// NewSnapshotStore returns a store for key over db.
func NewSnapshotStore(db *sql.DB, key string) *SnapshotStore {
	if key == "" {
		key = domain.DefaultSnapshotKey
	}
	return &SnapshotStore{db: db, key: key}
}

// Read returns the row's data and version.
func (s *SnapshotStore) Read(ctx context.Context) ([]byte, domain.VersionToken, error) {
	var (
		data    []byte
		version int64
	)
	err := s.db.QueryRowContext(ctx, selectSQL, s.key).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", domain.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("select snapshot: %w", err)
	}
	return data, versionToken(version), nil
}

// Write inserts or updates the row, guarded by expected.
func (s *SnapshotStore) Write(
	ctx context.Context,
	data []byte,
	expected domain.VersionToken,
) (domain.VersionToken, error) {
	var (
		row *sql.Row
		op  string
	)
	if expected.IsZero() {
		op = "insert"
		row = s.db.QueryRowContext(ctx, insertSQL, s.key, data)
	} else {
		current, err := strconv.ParseInt(expected.String(), 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: token %q is not a postgres version", domain.ErrVersionConflict, expected)
		}
		op = "update"
		row = s.db.QueryRowContext(ctx, updateSQL, data, s.key, current)
	}

	var version int64
	err := row.Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrVersionConflict
	}
	if err != nil {
		return "", fmt.Errorf("%s snapshot: %w", op, err)
	}
	return versionToken(version), nil
}

// Describe names the table and key.
func (s *SnapshotStore) Describe() string {
	return "postgres sanctrack_snapshots/" + s.key
}

func versionToken(v int64) domain.VersionToken {
	return domain.VersionToken(strconv.FormatInt(v, 10))
}
