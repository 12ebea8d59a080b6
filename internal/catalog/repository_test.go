package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostore/storefront/internal/catalog"
)

func setupTestDB(t *testing.T) *catalog.Repository {
	// Use in-memory database for tests
	repo, err := catalog.NewRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := repo.RunMigrations("./migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return repo
}

func TestVariant_ResolvesJoinedFields(t *testing.T) {
	repo := setupTestDB(t)

	v, err := repo.Variant(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, "1", v.VariantID)
	assert.Equal(t, "Ryzen 7 9800X3D", v.ProductName)
	assert.Equal(t, "AMD", v.BrandName)
	assert.Equal(t, "Processors", v.CategoryName)
	assert.Equal(t, 479.99, v.Price)
}

func TestVariant_SumsStockAcrossLocations(t *testing.T) {
	repo := setupTestDB(t)

	// Variant 1: (25-3) + (10-0) across two warehouses
	v, err := repo.Variant(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 32, v.TotalStock)

	// Variant 2: single location, reserved subtracted
	v, err = repo.Variant(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, 6, v.TotalStock)
}

func TestVariant_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.Variant(context.Background(), "no-such-variant")
	assert.ErrorIs(t, err, catalog.ErrVariantNotFound)
}
