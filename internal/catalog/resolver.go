package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/velostore/storefront/internal/domain"
)

// VariantSource is the primary lookup the resolver consults first.
// Consumers define this interface, not the SQL implementation.
type VariantSource interface {
	Variant(ctx context.Context, variantID string) (*domain.ResolvedVariant, error)
}

// Resolver resolves a variant ID into a ResolvedVariant, trying the
// primary source first and degrading to the fallback catalog, then to a
// synthesized placeholder. Resolution is read-only and never fails.
type Resolver struct {
	primary  VariantSource
	fallback *FallbackCatalog
	sfg      singleflight.Group // Collapses concurrent lookups for the same variant
}

func NewResolver(primary VariantSource, fallback *FallbackCatalog) *Resolver {
	return &Resolver{
		primary:  primary,
		fallback: fallback,
	}
}

func (r *Resolver) Resolve(ctx context.Context, variantID string) domain.ResolvedVariant {
	v, _, _ := r.sfg.Do(variantID, func() (interface{}, error) {
		return r.resolve(ctx, variantID), nil
	})
	return v.(domain.ResolvedVariant)
}

func (r *Resolver) resolve(ctx context.Context, variantID string) domain.ResolvedVariant {
	if r.primary != nil {
		rv, err := r.primary.Variant(ctx, variantID)
		if err == nil {
			return *rv
		}
		if !errors.Is(err, ErrVariantNotFound) {
			log.Printf("catalog lookup failed for variant %s, using fallback: %v", variantID, err)
		}
	}

	if v, ok := r.fallback.Lookup(variantID); ok {
		return v
	}

	return Placeholder(variantID)
}
