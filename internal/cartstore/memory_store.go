package cartstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/velostore/storefront/internal/domain"
)

// MemoryStore is the transient cart backend: a process-local mapping from
// owner key to that owner's line items, lost on restart. It exists so cart
// operations keep succeeding while the durable backend is unreachable.
//
// The mutex serializes individual operations but there is deliberately no
// cross-operation transactionality: two concurrent requests mutating the
// same owner's cart may interleave. Accepted weak-consistency tradeoff for
// a best-effort degraded mode.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]*domain.CartLineItem // ownerKey -> line items
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]*domain.CartLineItem),
	}
}

func (s *MemoryStore) ListItems(_ context.Context, ownerKey string) ([]domain.CartLineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.items[ownerKey]
	result := make([]domain.CartLineItem, 0, len(list))
	for _, item := range list {
		result = append(result, *item)
	}
	return result, nil
}

func (s *MemoryStore) AddOrIncrement(_ context.Context, ownerKey, variantID string, quantity int) (*domain.CartLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	for _, item := range s.items[ownerKey] {
		if item.VariantID == variantID {
			item.Quantity += quantity
			item.UpdatedAt = now
			copied := *item
			return &copied, nil
		}
	}

	item := &domain.CartLineItem{
		ID:        uuid.NewString(),
		OwnerKey:  ownerKey,
		VariantID: variantID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.items[ownerKey] = append(s.items[ownerKey], item)

	copied := *item
	return &copied, nil
}

func (s *MemoryStore) SetQuantity(_ context.Context, itemID string, quantity int, ownerKey string) (*domain.CartLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items[ownerKey] {
		if item.ID == itemID {
			item.Quantity = quantity
			item.UpdatedAt = time.Now()
			copied := *item
			return &copied, nil
		}
	}
	return nil, ErrItemNotFound
}

func (s *MemoryStore) Remove(_ context.Context, itemID, ownerKey string) (*domain.CartLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.items[ownerKey]
	for i, item := range list {
		if item.ID == itemID {
			s.items[ownerKey] = append(list[:i], list[i+1:]...)
			copied := *item
			return &copied, nil
		}
	}
	return nil, ErrItemNotFound
}

func (s *MemoryStore) Clear(_ context.Context, ownerKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, ownerKey)
	return nil
}

// Reclaim searches every owner key's list for an item with itemID and, on
// the first match, moves it into ownerKey's list. This recovers items that
// were written under an earlier session key but are being addressed with a
// different key now, e.g. after an anonymous visitor signs in.
//
// First-match-wins is safe because item IDs are random UUIDs, unique
// across the whole keyspace.
func (s *MemoryStore) Reclaim(_ context.Context, itemID, ownerKey string) (*domain.CartLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, list := range s.items {
		for i, item := range list {
			if item.ID != itemID {
				continue
			}

			s.items[key] = append(list[:i], list[i+1:]...)
			if len(s.items[key]) == 0 {
				delete(s.items, key)
			}

			item.OwnerKey = ownerKey
			item.UpdatedAt = time.Now()
			s.items[ownerKey] = append(s.items[ownerKey], item)

			copied := *item
			return &copied, nil
		}
	}
	return nil, ErrItemNotFound
}
