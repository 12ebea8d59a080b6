package catalog

import "github.com/velostore/storefront/internal/domain"

// FallbackCatalog is a small built-in reference table of demo variants,
// keyed by the same variant IDs the catalog database seeds. It serves
// resolution when the database is unreachable or the ID is unknown there.
type FallbackCatalog struct {
	variants map[string]domain.ResolvedVariant
}

func NewFallbackCatalog() *FallbackCatalog {
	return &FallbackCatalog{
		variants: map[string]domain.ResolvedVariant{
			"1": {
				VariantID:    "1",
				ProductName:  "Ryzen 7 9800X3D",
				BrandName:    "AMD",
				CategoryName: "Processors",
				Price:        479.99,
				TotalStock:   10,
			},
			"2": {
				VariantID:    "2",
				ProductName:  "GeForce RTX 4070 Super",
				BrandName:    "NVIDIA",
				CategoryName: "Graphics Cards",
				Price:        599.99,
				TotalStock:   5,
			},
			"3": {
				VariantID:    "3",
				ProductName:  "Vengeance 32GB DDR5-6000",
				BrandName:    "Corsair",
				CategoryName: "Memory",
				Price:        124.99,
				TotalStock:   20,
			},
			"4": {
				VariantID:    "4",
				ProductName:  "990 Pro 2TB NVMe",
				BrandName:    "Samsung",
				CategoryName: "Storage",
				Price:        169.99,
				TotalStock:   15,
			},
		},
	}
}

// Lookup returns the fallback entry for variantID, if one exists.
func (f *FallbackCatalog) Lookup(variantID string) (domain.ResolvedVariant, bool) {
	v, ok := f.variants[variantID]
	return v, ok
}

// Placeholder synthesizes a minimal renderable variant for IDs unknown to
// both the database and the fallback table. Callers never get an error
// out of resolution, only a generic zero-priced entry.
func Placeholder(variantID string) domain.ResolvedVariant {
	return domain.ResolvedVariant{
		VariantID:    variantID,
		ProductName:  "Unknown Product",
		BrandName:    "Unknown",
		CategoryName: "General",
		Price:        0,
		TotalStock:   0,
	}
}
