package domain

import "time"

// CartLineItem is a single entry in an owner's cart. OwnerKey is either an
// authenticated user ID or an anonymous session ID; exactly one owner key is
// valid per item at any time.
type CartLineItem struct {
	ID        string    `bson:"_id" json:"id"`
	OwnerKey  string    `bson:"owner_key" json:"ownerKey"`
	VariantID string    `bson:"variant_id" json:"variantId"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`

	// Variant is attached fresh at read time by the variant resolver.
	// It is never persisted with the line item, so price and stock changes
	// are reflected immediately on the next read.
	Variant *ResolvedVariant `bson:"-" json:"variant,omitempty"`
}
