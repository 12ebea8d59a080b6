package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostore/storefront/internal/domain"
)

type stubSource struct {
	variants map[string]*domain.ResolvedVariant
	err      error
}

func (s *stubSource) Variant(_ context.Context, variantID string) (*domain.ResolvedVariant, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.variants[variantID]; ok {
		return v, nil
	}
	return nil, ErrVariantNotFound
}

func TestResolver_PrimaryHit(t *testing.T) {
	source := &stubSource{
		variants: map[string]*domain.ResolvedVariant{
			"1": {
				VariantID:    "1",
				ProductName:  "Live Product",
				BrandName:    "Live Brand",
				CategoryName: "Live Category",
				Price:        100,
				TotalStock:   7,
			},
		},
	}
	resolver := NewResolver(source, NewFallbackCatalog())

	v := resolver.Resolve(context.Background(), "1")
	assert.Equal(t, "Live Product", v.ProductName)
	assert.Equal(t, 7, v.TotalStock)
}

func TestResolver_PrimaryErrorUsesFallbackCatalog(t *testing.T) {
	source := &stubSource{err: errors.New("connection refused")}
	resolver := NewResolver(source, NewFallbackCatalog())

	v := resolver.Resolve(context.Background(), "1")

	// Known demo variant served from the built-in table
	assert.Equal(t, "1", v.VariantID)
	assert.NotEmpty(t, v.ProductName)
	assert.Greater(t, v.Price, 0.0)
}

func TestResolver_PrimaryMissUsesFallbackCatalog(t *testing.T) {
	source := &stubSource{variants: map[string]*domain.ResolvedVariant{}}
	resolver := NewResolver(source, NewFallbackCatalog())

	v := resolver.Resolve(context.Background(), "2")
	assert.Equal(t, "2", v.VariantID)
	assert.NotEmpty(t, v.ProductName)
}

func TestResolver_UnknownEverywhereSynthesizesPlaceholder(t *testing.T) {
	source := &stubSource{err: errors.New("connection refused")}
	resolver := NewResolver(source, NewFallbackCatalog())

	v := resolver.Resolve(context.Background(), "definitely-not-a-variant")

	// Always renderable, never an error
	require.Equal(t, "definitely-not-a-variant", v.VariantID)
	assert.NotEmpty(t, v.ProductName)
	assert.Equal(t, 0.0, v.Price)
	assert.Equal(t, 0, v.TotalStock)
}

func TestResolver_NilPrimary(t *testing.T) {
	resolver := NewResolver(nil, NewFallbackCatalog())

	v := resolver.Resolve(context.Background(), "1")
	assert.NotEmpty(t, v.ProductName)
}

func TestAvailableStock_FlooredAtZero(t *testing.T) {
	levels := []domain.InventoryLevel{
		{VariantID: "x", Location: "a", Stock: 2, Reserved: 5},
		{VariantID: "x", Location: "b", Stock: 1, Reserved: 0},
	}
	assert.Equal(t, 0, domain.AvailableStock(levels))
}
