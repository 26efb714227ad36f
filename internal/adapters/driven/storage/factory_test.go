package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

func TestFactory_SupportedBackends(t *testing.T) {
	f := NewFactory(t.TempDir())

	assert.ElementsMatch(t, domain.StoreBackends(), f.SupportedBackends())
}

func TestFactory_OpenUnsupported(t *testing.T) {
	f := NewFactory(t.TempDir())

	_, err := f.Open(context.Background(), domain.StoreSettings{Backend: "ftp"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedBackend)
}

func TestFactory_OpenFile(t *testing.T) {
	dir := t.TempDir()
	f := NewFactory(dir)
	defer f.Close()

	t.Run("default path", func(t *testing.T) {
		store, err := f.Open(context.Background(), domain.StoreSettings{Backend: domain.StoreBackendFile})
		require.NoError(t, err)
		assert.Equal(t, "file "+filepath.Join(dir, domain.DefaultSnapshotFile), store.Describe())
	})

	t.Run("relative path", func(t *testing.T) {
		settings := domain.StoreSettings{
			Backend: domain.StoreBackendFile,
			File:    domain.FileStoreSettings{Path: "snapshots/un.json"},
		}
		store, err := f.Open(context.Background(), settings)
		require.NoError(t, err)
		assert.Equal(t, "file "+filepath.Join(dir, "snapshots", "un.json"), store.Describe())
	})

	t.Run("absolute path", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "abs.json")
		settings := domain.StoreSettings{
			Backend: domain.StoreBackendFile,
			File:    domain.FileStoreSettings{Path: abs},
		}
		store, err := f.Open(context.Background(), settings)
		require.NoError(t, err)
		assert.Equal(t, "file "+abs, store.Describe())
	})
}

func TestFactory_OpenMemory(t *testing.T) {
	f := NewFactory("")

	store, err := f.Open(context.Background(), domain.StoreSettings{Backend: domain.StoreBackendMemory})
	require.NoError(t, err)
	assert.Equal(t, "memory", store.Describe())
}

func TestFactory_SQLiteSharesHistoryDatabase(t *testing.T) {
	dir := t.TempDir()
	f := NewFactory(dir)
	defer f.Close()
	ctx := context.Background()

	store, err := f.Open(ctx, domain.StoreSettings{Backend: domain.StoreBackendSQLite})
	require.NoError(t, err)
	assert.Contains(t, store.Describe(), filepath.Join(dir, DataDirName))

	history, err := f.History("")
	require.NoError(t, err)
	require.NoError(t, history.Record(ctx, domain.RunRecord{ID: "r1", Mode: domain.RunModeBaseline}))

	records, err := history.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	assert.Len(t, f.closers, 1)
	require.NoError(t, f.Close())
	assert.Empty(t, f.closers)
}

func TestFactory_RemoteBackendsRequireSettings(t *testing.T) {
	f := NewFactory(t.TempDir())
	defer f.Close()

	for _, backend := range []domain.StoreBackend{
		domain.StoreBackendGitHub,
		domain.StoreBackendGCS,
		domain.StoreBackendS3,
		domain.StoreBackendPostgres,
		domain.StoreBackendRedis,
	} {
		t.Run(backend.String(), func(t *testing.T) {
			_, err := f.Open(context.Background(), domain.StoreSettings{Backend: backend})
			assert.ErrorIs(t, err, domain.ErrBackendNotConfigured)
		})
	}
}

func TestFactory_Register(t *testing.T) {
	f := NewFactory("")
	called := false
	f.Register("custom", func(context.Context, *Factory, domain.StoreSettings) (driven.SnapshotBlobStore, error) {
		called = true
		return nil, domain.ErrBackendNotConfigured
	})

	_, err := f.Open(context.Background(), domain.StoreSettings{Backend: "custom"})
	assert.True(t, called)
	assert.ErrorIs(t, err, domain.ErrBackendNotConfigured)
}
