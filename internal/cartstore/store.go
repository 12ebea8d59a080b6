package cartstore

import (
	"context"
	"errors"

	"github.com/velostore/storefront/internal/domain"
)

var ErrItemNotFound = errors.New("cart item not found")

// Store holds cart line items keyed by an owner key (authenticated user ID
// or anonymous session ID). The durable implementation is MongoDB-backed;
// the transient one is a process-local map used when the database is down.
// Consumers define this interface, not the backends.
type Store interface {
	ListItems(ctx context.Context, ownerKey string) ([]domain.CartLineItem, error)

	// AddOrIncrement appends a new line item for (ownerKey, variantID) or
	// increments the quantity of an existing one, and returns the result.
	AddOrIncrement(ctx context.Context, ownerKey, variantID string, quantity int) (*domain.CartLineItem, error)

	// SetQuantity updates the quantity of the item with itemID, scoped to
	// ownerKey. Returns ErrItemNotFound if no such item exists under that key.
	SetQuantity(ctx context.Context, itemID string, quantity int, ownerKey string) (*domain.CartLineItem, error)

	// Remove deletes the item with itemID scoped to ownerKey and returns
	// the removed record. Returns ErrItemNotFound on a miss.
	Remove(ctx context.Context, itemID, ownerKey string) (*domain.CartLineItem, error)

	// Clear deletes every item belonging to ownerKey.
	Clear(ctx context.Context, ownerKey string) error
}
