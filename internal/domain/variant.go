package domain

// ResolvedVariant is the normalized, read-only projection of a product
// variant that gets attached to cart line items. One shape for every
// consumer, whether it came from the catalog database, the built-in
// fallback catalog, or a synthesized placeholder.
type ResolvedVariant struct {
	VariantID    string  `json:"variantId"`
	ProductName  string  `json:"productName"`
	BrandName    string  `json:"brandName"`
	CategoryName string  `json:"categoryName"`
	Price        float64 `json:"price"`
	TotalStock   int     `json:"totalStock"`
}

// AvailableStock computes sellable stock from per-location levels:
// sum of (stock - reserved) across locations, floored at 0.
func AvailableStock(levels []InventoryLevel) int {
	total := 0
	for _, l := range levels {
		total += l.Stock - l.Reserved
	}
	if total < 0 {
		return 0
	}
	return total
}

// InventoryLevel is the stock held at a single location for one variant.
type InventoryLevel struct {
	VariantID string
	Location  string
	Stock     int
	Reserved  int
}
