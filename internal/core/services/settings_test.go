package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sanctrack/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

func newTestSettingsService(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)
	svc.getenv = func(k string) string { return env[k] }
	return svc, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Store.Backend, settings.Store.Backend)
	assert.Equal(t, defaults.ReportFormat, settings.ReportFormat)
	assert.Equal(t, domain.DefaultSnapshotFile, settings.Store.GitHub.Path)
	assert.Equal(t, domain.DefaultSnapshotKey, settings.Store.Redis.Key)
	assert.True(t, settings.HistoryEnabled)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	svc, store := newTestSettingsService(nil)
	_ = store.Set("store.backend", "github")
	_ = store.Set("store.github.owner", "acme")
	_ = store.Set("store.github.repo", "lists")
	_ = store.Set("report.format", "json")
	_ = store.Set("history.enabled", false)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.StoreBackendGitHub, settings.Store.Backend)
	assert.Equal(t, "acme", settings.Store.GitHub.Owner)
	assert.Equal(t, "lists", settings.Store.GitHub.Repo)
	assert.Equal(t, domain.ReportFormatJSON, settings.ReportFormat)
	assert.False(t, settings.HistoryEnabled)
}

func TestSettingsService_Get_EnvironmentOverrides(t *testing.T) {
	svc, store := newTestSettingsService(map[string]string{
		"SANCTRACK_STORE_BACKEND": "redis",
		"MY_TOKEN":                "ghp_secret",
	})
	_ = store.Set("store.github.token_env", "MY_TOKEN")

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.StoreBackendRedis, settings.Store.Backend)
	assert.Equal(t, "ghp_secret", settings.Store.GitHub.Token)
}

func TestSettingsService_Get_StoredTokenWins(t *testing.T) {
	svc, store := newTestSettingsService(map[string]string{"GITHUB_TOKEN": "from-env"})
	_ = store.Set("store.github.token", "from-config")

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "from-config", settings.Store.GitHub.Token)
}

func TestSettingsService_Get_InvalidValues(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		svc, store := newTestSettingsService(nil)
		_ = store.Set("store.backend", "s3")

		_, err := svc.Get()
		assert.ErrorIs(t, err, domain.ErrUnsupportedBackend)
	})

	t.Run("format", func(t *testing.T) {
		svc, store := newTestSettingsService(nil)
		_ = store.Set("report.format", "yaml")

		_, err := svc.Get()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{"valid backend", "store.backend", "postgres", nil},
		{"invalid backend", "store.backend", "dynamo", domain.ErrUnsupportedBackend},
		{"valid format", "report.format", "json", nil},
		{"invalid format", "report.format", "xml", domain.ErrInvalidInput},
		{"bool", "history.enabled", "false", nil},
		{"invalid bool", "history.enabled", "maybe", domain.ErrInvalidInput},
		{"unknown key", "store.s3.bucket", "x", domain.ErrInvalidInput},
		{"wrong case", "Store.Backend", "file", domain.ErrInvalidInput},
		{"plain string", "store.gcs.bucket", "sanctions", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestSettingsService(nil)

			err := svc.Set(tt.key, tt.value)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, store.Keys())
				return
			}
			require.NoError(t, err)
			_, ok := store.Get(tt.key)
			assert.True(t, ok)
		})
	}
}

func TestSettingsService_Set_BoolStoredAsBool(t *testing.T) {
	svc, store := newTestSettingsService(nil)

	require.NoError(t, svc.Set("history.enabled", "false"))

	val, _ := store.Get("history.enabled")
	assert.Equal(t, false, val)
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.False(t, settings.HistoryEnabled)
}

func TestSettingsService_Values_MasksSecrets(t *testing.T) {
	svc, store := newTestSettingsService(nil)
	_ = store.Set("store.github.token", "ghp_secret")
	_ = store.Set("store.postgres.dsn", "postgres://u:p@h/db")
	_ = store.Set("store.backend", "github")

	values := svc.Values()

	assert.Equal(t, "********", values["store.github.token"])
	assert.Equal(t, "********", values["store.postgres.dsn"])
	assert.Equal(t, "github", values["store.backend"])
}

func TestSettingsService_ConfigPath(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	assert.Equal(t, ":memory:", svc.ConfigPath())
	assert.Contains(t, KnownKeys(), "store.redis.url")
}
