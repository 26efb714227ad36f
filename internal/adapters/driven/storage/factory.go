// Package storage builds the snapshot store selected in settings.
//
// Each backend lives in its own subpackage; Factory maps a backend name to
// the builder that constructs it and tracks the resources that must be
// released when the process exits.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage/gcs"
	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage/github"
	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage/s3"
	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
	"github.com/custodia-labs/sanctrack/internal/logger"
)

// DataDirName is the directory under the config dir holding the SQLite database.
const DataDirName = "data"

// Builder creates a snapshot store for one backend.
type Builder func(ctx context.Context, f *Factory, settings domain.StoreSettings) (driven.SnapshotBlobStore, error)

// Factory opens snapshot stores and the run history.
type Factory struct {
	configDir string
	builders  map[domain.StoreBackend]Builder

	mu      sync.Mutex
	sqlite  *sqlite.Store
	closers []io.Closer
}

// NewFactory creates a factory with every built-in backend registered.
// Relative and default paths resolve against configDir.
func NewFactory(configDir string) *Factory {
	f := &Factory{
		configDir: configDir,
		builders:  make(map[domain.StoreBackend]Builder),
	}

	f.Register(domain.StoreBackendFile, buildFile)
	f.Register(domain.StoreBackendMemory, buildMemory)
	f.Register(domain.StoreBackendSQLite, buildSQLite)
	f.Register(domain.StoreBackendGitHub, buildGitHub)
	f.Register(domain.StoreBackendGCS, buildGCS)
	f.Register(domain.StoreBackendS3, buildS3)
	f.Register(domain.StoreBackendPostgres, buildPostgres)
	f.Register(domain.StoreBackendRedis, buildRedis)

	return f
}

// Register adds or replaces the builder for backend.
func (f *Factory) Register(backend domain.StoreBackend, builder Builder) {
	f.builders[backend] = builder
}

// SupportedBackends returns the registered backends in sorted order.
func (f *Factory) SupportedBackends() []domain.StoreBackend {
	out := make([]domain.StoreBackend, 0, len(f.builders))
	for b := range f.builders {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Open returns the snapshot store selected by settings.
func (f *Factory) Open(ctx context.Context, settings domain.StoreSettings) (driven.SnapshotBlobStore, error) {
	builder, ok := f.builders[settings.Backend]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, settings.Backend)
	}

	store, err := builder(ctx, f, settings)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", settings.Backend, err)
	}
	logger.Debug("Snapshot store: %s", store.Describe())
	return store, nil
}

// History returns the SQLite run history, opening the database if needed.
func (f *Factory) History(dir string) (driven.RunHistoryStore, error) {
	store, err := f.sqliteStore(dir)
	if err != nil {
		return nil, err
	}
	return store.RunStore(), nil
}

// Close releases every resource opened by the factory.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var firstErr error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	f.sqlite = nil
	return firstErr
}

func (f *Factory) track(c io.Closer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closers = append(f.closers, c)
}

// sqliteStore opens the shared database once. dir defaults to <configDir>/data.
func (f *Factory) sqliteStore(dir string) (*sqlite.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sqlite != nil {
		return f.sqlite, nil
	}

	store, err := sqlite.NewStore(f.resolve(dir, DataDirName))
	if err != nil {
		return nil, err
	}
	f.sqlite = store
	f.closers = append(f.closers, store)
	return store, nil
}

// resolve makes path absolute against the config dir, using fallback when
// path is empty.
func (f *Factory) resolve(path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) || f.configDir == "" {
		return path
	}
	return filepath.Join(f.configDir, path)
}

func buildFile(_ context.Context, f *Factory, s domain.StoreSettings) (driven.SnapshotBlobStore, error) {
	return file.NewSnapshotStore(f.resolve(s.File.Path, domain.DefaultSnapshotFile))
}

func buildMemory(_ context.Context, _ *Factory, _ domain.StoreSettings) (driven.SnapshotBlobStore, error) {
	return memory.NewSnapshotStore(), nil
}

func buildSQLite(_ context.Context, f *Factory, s domain.StoreSettings) (driven.SnapshotBlobStore, error) {
	store, err := f.sqliteStore(s.SQLite.Dir)
	if err != nil {
		return nil, err
	}
	return store.SnapshotStore(domain.DefaultSnapshotKey), nil
}

func buildGitHub(ctx context.Context, _ *Factory, s domain.StoreSettings) (driven.SnapshotBlobStore, error) {
	if !s.GitHub.IsConfigured() {
		return nil, fmt.Errorf("%w: set store.github.owner, repo, path and a token", domain.ErrBackendNotConfigured)
	}
	return github.NewSnapshotStore(github.NewClientWithToken(ctx, s.GitHub.Token), s.GitHub)
}

func buildGCS(ctx context.Context, f *Factory, s domain.StoreSettings) (driven.SnapshotBlobStore, error) {
	store, err := gcs.NewSnapshotStore(ctx, s.GCS)
	if err != nil {
		return nil, err
	}
	f.track(store)
	return store, nil
}

func buildS3(ctx context.Context, _ *Factory, s domain.StoreSettings) (driven.SnapshotBlobStore, error) {
	return s3.NewSnapshotStore(ctx, s.S3)
}

func buildPostgres(ctx context.Context, f *Factory, s domain.StoreSettings) (driven.SnapshotBlobStore, error) {
	db, err := postgres.Open(ctx, s.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	f.track(db)
	return postgres.NewSnapshotStore(db, s.Postgres.Key), nil
}

func buildRedis(ctx context.Context, f *Factory, s domain.StoreSettings) (driven.SnapshotBlobStore, error) {
	client, err := redis.NewClient(ctx, s.Redis.URL)
	if err != nil {
		return nil, err
	}
	f.track(client)
	return redis.NewSnapshotStore(client, s.Redis.Key), nil
}
