package memory

import (
	"context"
	"testing"

	"github.com/poiesic/memrepo/core"
	"github.com/poiesic/memrepo/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Scenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty slice", func(t *testing.T) {
		store := NewItemStore()
		defer store.Close()

		all, err := store.All(ctx)
		require.NoError(t, err)
		require.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("save then find", func(t *testing.T) {
		store := NewItemStore()
		defer store.Close()

		item := core.Item{Id: validID, Name: "one"}
		require.NoError(t, store.Save(ctx, item))

		all, err := store.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []core.Item{item}, all)

		found, ok, err := store.FindByID(ctx, validID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, item, found)

		_, ok, err = store.FindByID(ctx, invalidID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete existing and missing", func(t *testing.T) {
		store := NewItemStore()
		defer store.Close()

		item := core.Item{Id: validID, Name: "one"}
		require.NoError(t, store.Save(ctx, item))

		require.NoError(t, store.Delete(ctx, invalidID))
		assert.Equal(t, 1, store.Len())

		require.NoError(t, store.Delete(ctx, validID))
		assert.Equal(t, 0, store.Len())
	})
}

func TestStore_WrapsExistingRepository(t *testing.T) {
	repo := New[note, string]()
	repo.Save(note{key: "k", body: "v"})

	store := NewStore(repo)
	defer store.Close()

	found, ok, err := store.FindByID(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", found.body)
}

func TestStore_Close(t *testing.T) {
	ctx := context.Background()
	store := NewItemStore()
	require.NoError(t, store.Save(ctx, core.Item{Id: 1, Name: "x"}))

	require.NoError(t, store.Close())
	assert.ErrorIs(t, store.Close(), storage.ErrStorageClosed)

	_, err := store.All(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Save(ctx, core.Item{Id: 2, Name: "y"}), storage.ErrStorageClosed)
	_, _, err = store.FindByID(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Delete(ctx, 1), storage.ErrStorageClosed)
}

func TestStore_CanceledContext(t *testing.T) {
	store := NewItemStore()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, core.Item{Id: 1, Name: "late"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
}
