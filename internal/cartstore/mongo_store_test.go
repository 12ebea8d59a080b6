package cartstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestStore(t *testing.T) (*MongoStore, func()) {
	ctx := context.Background()

	// Start MongoDB container
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	// Get connection string
	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongo(ctx, uri, "testdb")
	require.NoError(t, err)

	store := NewMongoStore(db)
	require.NoError(t, store.CreateIndexes(ctx))

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return store, cleanup
}

func TestMongoStore_AddOrIncrement_NewItem(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	item, err := store.AddOrIncrement(ctx, "s1", "variant-1", 3)
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "s1", item.OwnerKey)
	assert.Equal(t, "variant-1", item.VariantID)
	assert.Equal(t, 3, item.Quantity)
	assert.False(t, item.CreatedAt.IsZero())
	assert.False(t, item.UpdatedAt.IsZero())
}

func TestMongoStore_AddOrIncrement_MergesSameVariant(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first, err := store.AddOrIncrement(ctx, "s1", "variant-1", 2)
	require.NoError(t, err)

	second, err := store.AddOrIncrement(ctx, "s1", "variant-1", 3)
	require.NoError(t, err)

	// Upserted into the same document, quantity incremented
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	items, err := store.ListItems(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestMongoStore_AddOrIncrement_SameVariantDifferentOwners(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first, err := store.AddOrIncrement(ctx, "s1", "variant-1", 1)
	require.NoError(t, err)
	second, err := store.AddOrIncrement(ctx, "s2", "variant-1", 1)
	require.NoError(t, err)

	// Exact (owner, variant) match only: two separate line items
	assert.NotEqual(t, first.ID, second.ID)
}

func TestMongoStore_ListItems_ScopedToOwner(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := store.AddOrIncrement(ctx, "s1", "variant-1", 1)
	require.NoError(t, err)
	_, err = store.AddOrIncrement(ctx, "s1", "variant-2", 1)
	require.NoError(t, err)
	_, err = store.AddOrIncrement(ctx, "s2", "variant-3", 1)
	require.NoError(t, err)

	items, err := store.ListItems(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = store.ListItems(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMongoStore_SetQuantity(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	item, err := store.AddOrIncrement(ctx, "s1", "variant-1", 2)
	require.NoError(t, err)

	updated, err := store.SetQuantity(ctx, item.ID, 7, "s1")
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
	assert.False(t, updated.UpdatedAt.Before(item.UpdatedAt))
}

func TestMongoStore_SetQuantity_WrongOwnerMisses(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	item, err := store.AddOrIncrement(ctx, "s1", "variant-1", 2)
	require.NoError(t, err)

	// The query itself scopes to the owner key, so another owner's key
	// cannot touch the item.
	_, err = store.SetQuantity(ctx, item.ID, 7, "someone-else")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = store.SetQuantity(ctx, "no-such-item", 7, "s1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMongoStore_Remove(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	item, err := store.AddOrIncrement(ctx, "s1", "variant-1", 2)
	require.NoError(t, err)

	_, err = store.Remove(ctx, item.ID, "someone-else")
	assert.ErrorIs(t, err, ErrItemNotFound)

	removed, err := store.Remove(ctx, item.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, item.ID, removed.ID)

	_, err = store.Remove(ctx, item.ID, "s1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMongoStore_Clear(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := store.AddOrIncrement(ctx, "s1", "variant-1", 1)
	require.NoError(t, err)
	_, err = store.AddOrIncrement(ctx, "s1", "variant-2", 1)
	require.NoError(t, err)
	_, err = store.AddOrIncrement(ctx, "s2", "variant-1", 1)
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, "s1"))

	items, err := store.ListItems(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Other owners untouched
	items, err = store.ListItems(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
