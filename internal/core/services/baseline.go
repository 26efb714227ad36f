package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
	"github.com/custodia-labs/sanctrack/internal/logger"
)

// Ensure SnapshotRepository implements the interface.
var _ driving.BaselineService = (*SnapshotRepository)(nil)

// SnapshotRepository loads and saves snapshots through a blob store.
type SnapshotRepository struct {
	store driven.SnapshotBlobStore
}

// NewSnapshotRepository creates a repository over the given blob store.
func NewSnapshotRepository(store driven.SnapshotBlobStore) *SnapshotRepository {
	return &SnapshotRepository{store: store}
}

// Load reads and decodes the stored snapshot.
// Returns domain.ErrNotFound when no baseline exists.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.StoredSnapshot, error) {
	data, version, err := r.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded %d entries from %s (version %s)", len(entries), r.store.Describe(), version)
	return &domain.StoredSnapshot{Entries: entries, Version: version}, nil
}

// Save encodes and writes a snapshot, expecting the stored version to be expected.
func (r *SnapshotRepository) Save(
	ctx context.Context,
	snapshot domain.Snapshot,
	expected domain.VersionToken,
) (domain.VersionToken, error) {
	data, err := EncodeSnapshot(snapshot)
	if err != nil {
		return "", err
	}

	version, err := r.store.Write(ctx, data, expected)
	if err != nil {
		return "", fmt.Errorf("write snapshot to %s: %w", r.store.Describe(), err)
	}

	logger.Debug("Saved %d entries to %s (version %s -> %s)", len(snapshot), r.store.Describe(), expected, version)
	return version, nil
}

// Current returns the stored baseline.
func (r *SnapshotRepository) Current(ctx context.Context) (*domain.StoredSnapshot, error) {
	return r.Load(ctx)
}

// Location describes where the baseline is stored.
func (r *SnapshotRepository) Location() string {
	return r.store.Describe()
}
