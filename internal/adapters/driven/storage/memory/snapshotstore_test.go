package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

func TestSnapshotStore_ReadEmpty(t *testing.T) {
	store := NewSnapshotStore()

	_, _, err := store.Read(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotStore_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	v1, err := store.Write(ctx, []byte("[]"), "")
	require.NoError(t, err)
	assert.Equal(t, domain.VersionToken("1"), v1)

	data, version, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), data)
	assert.Equal(t, v1, version)

	v2, err := store.Write(ctx, []byte("[1]"), v1)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)
}

func TestSnapshotStore_Conflicts(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	t.Run("version on create", func(t *testing.T) {
		_, err := store.Write(ctx, []byte("x"), "7")
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})

	v1, err := store.Write(ctx, []byte("x"), "")
	require.NoError(t, err)

	t.Run("create when present", func(t *testing.T) {
		_, err := store.Write(ctx, []byte("y"), "")
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})

	t.Run("stale version", func(t *testing.T) {
		_, err := store.Write(ctx, []byte("y"), v1)
		require.NoError(t, err)

		_, err = store.Write(ctx, []byte("z"), v1)
		assert.ErrorIs(t, err, domain.ErrVersionConflict)

		data, _, err := store.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("y"), data)
	})
}

func TestSnapshotStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSnapshotStore().Write(ctx, []byte("x"), "")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Record(ctx, domain.RunRecord{ID: id}))
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "b", limited[1].ID)
}
