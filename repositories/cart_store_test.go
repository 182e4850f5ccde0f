package repositories

import (
	"context"
	"testing"

	"booknest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCartStoreMergesDuplicates(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	item := models.CartItem{BookID: 3, Title: "Atomic Habits", Price: 450, Quantity: 1}
	require.NoError(t, store.Add(ctx, 7, item))
	require.NoError(t, store.Add(ctx, 7, item))

	items, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 1, "same book twice merges into one line")
	assert.Equal(t, 2, items[0].Quantity)
}

func TestMemoryCartStoreRemove(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, 7, models.CartItem{BookID: 3, Title: "Atomic Habits", Price: 450, Quantity: 1}))
	require.NoError(t, store.Add(ctx, 7, models.CartItem{BookID: 10, Title: "Sapiens", Price: 550, Quantity: 1}))

	require.NoError(t, store.Remove(ctx, 7, 3))

	items, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].BookID)
}

func TestMemoryCartStoreClear(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, 7, models.CartItem{BookID: 3, Title: "Atomic Habits", Price: 450, Quantity: 1}))
	require.NoError(t, store.Clear(ctx, 7))

	items, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryCartStoreIsolatesUsers(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, 7, models.CartItem{BookID: 3, Title: "Atomic Habits", Price: 450, Quantity: 1}))

	items, err := store.Get(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.Clear(ctx, 8))
	items, err = store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestMemoryCartStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, 7, models.CartItem{BookID: 3, Title: "Atomic Habits", Price: 450, Quantity: 1}))

	items, err := store.Get(ctx, 7)
	require.NoError(t, err)
	items[0].Quantity = 99

	again, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].Quantity, "mutating a returned slice must not touch the store")
}
