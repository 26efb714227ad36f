package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("store.backend", "sqlite"))

	val, ok := store.Get("store.backend")
	assert.True(t, ok)
	assert.Equal(t, "sqlite", val)
	assert.Equal(t, "sqlite", store.GetString("store.backend"))

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("history.enabled", true))

	assert.Equal(t, "", store.GetString("history.enabled"))
	assert.Equal(t, "", store.GetString("nonexistent"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("a", true))
	require.NoError(t, store.Set("b", "TRUE"))
	require.NoError(t, store.Set("c", "no"))

	assert.True(t, store.GetBool("a"))
	assert.True(t, store.GetBool("b"))
	assert.False(t, store.GetBool("c"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("store.backend", "github"))
	require.NoError(t, store.Set("store.github.owner", "acme"))
	require.NoError(t, store.Set("report.format", "json"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[store.github]")

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "github", reopened.GetString("store.backend"))
	assert.Equal(t, "acme", reopened.GetString("store.github.owner"))
	assert.Equal(t, []string{"report.format", "store.backend", "store.github.owner"}, reopened.Keys())
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[store]
backend = "redis"

[store.redis]
url = "redis://localhost:6379/0"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, "redis", store.GetString("store.backend"))
	assert.Equal(t, "redis://localhost:6379/0", store.GetString("store.redis.url"))
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_Set_KeyConflict(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("store.backend", "file"))
	err = store.Set("store.backend.extra", "x")

	assert.Error(t, err)
}

func TestFlattenAndNest(t *testing.T) {
	nested := map[string]any{
		"store": map[string]any{
			"backend": "file",
			"file":    map[string]any{"path": "/tmp/x.json"},
		},
		"top": "level",
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{
		"store.backend":   "file",
		"store.file.path": "/tmp/x.json",
		"top":             "level",
	}, flat)

	back, err := nestMap(flat)
	require.NoError(t, err)
	assert.Equal(t, nested, back)
}
