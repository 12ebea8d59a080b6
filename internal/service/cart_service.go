package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/velostore/storefront/internal/cartstore"
	"github.com/velostore/storefront/internal/domain"
)

// VariantResolver attaches live product data to line items at read time.
type VariantResolver interface {
	Resolve(ctx context.Context, variantID string) domain.ResolvedVariant
}

// CartService resolves cart operations against whichever backend is live.
// Every operation attempts the durable backend first; any error there sends
// the operation to the transient in-memory backend instead of failing the
// request. Availability over consistency: carts written to the transient
// backend do not survive a restart, and that is an accepted tradeoff.
//
// A circuit breaker guards the durable backend so a dead database fails
// fast to the transient path instead of eating the connection timeout on
// every request. Not-found results are not counted as backend failures.
type CartService struct {
	durable  cartstore.Store
	fallback *cartstore.MemoryStore
	resolver VariantResolver
	breaker  *gobreaker.CircuitBreaker[any]
}

func NewCartService(durable cartstore.Store, fallback *cartstore.MemoryStore, resolver VariantResolver) *CartService {
	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "durable-cart-backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, cartstore.ErrItemNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &CartService{
		durable:  durable,
		fallback: fallback,
		resolver: resolver,
		breaker:  breaker,
	}
}

func (s *CartService) ListItems(ctx context.Context, ownerKey string) ([]domain.CartLineItem, error) {
	v, err := s.breaker.Execute(func() (any, error) {
		return s.durable.ListItems(ctx, ownerKey)
	})
	if err != nil {
		log.Printf("durable cart backend unavailable, listing from memory: %v", err)
		items, ferr := s.fallback.ListItems(ctx, ownerKey)
		if ferr != nil {
			return nil, ferr
		}
		return s.enrichAll(ctx, items), nil
	}

	return s.enrichAll(ctx, v.([]domain.CartLineItem)), nil
}

func (s *CartService) AddItem(ctx context.Context, ownerKey, variantID string, quantity int) (*domain.CartLineItem, error) {
	v, err := s.breaker.Execute(func() (any, error) {
		return s.durable.AddOrIncrement(ctx, ownerKey, variantID, quantity)
	})
	if err != nil {
		log.Printf("durable cart backend unavailable, adding to memory: %v", err)
		item, ferr := s.fallback.AddOrIncrement(ctx, ownerKey, variantID, quantity)
		if ferr != nil {
			return nil, ferr
		}
		return s.enrich(ctx, item), nil
	}

	return s.enrich(ctx, v.(*domain.CartLineItem)), nil
}

// SetQuantity updates a line item's quantity. A quantity at or below zero
// removes the item instead.
func (s *CartService) SetQuantity(ctx context.Context, itemID string, quantity int, ownerKey string) (*domain.CartLineItem, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, itemID, ownerKey)
	}

	v, err := s.breaker.Execute(func() (any, error) {
		return s.durable.SetQuantity(ctx, itemID, quantity, ownerKey)
	})
	if err == nil {
		return s.enrich(ctx, v.(*domain.CartLineItem)), nil
	}
	if !errors.Is(err, cartstore.ErrItemNotFound) {
		log.Printf("durable cart backend unavailable, updating in memory: %v", err)
	}

	item, ferr := s.fallback.SetQuantity(ctx, itemID, quantity, ownerKey)
	if errors.Is(ferr, cartstore.ErrItemNotFound) {
		if _, rerr := s.reclaim(ctx, itemID, ownerKey); rerr != nil {
			return nil, rerr
		}
		item, ferr = s.fallback.SetQuantity(ctx, itemID, quantity, ownerKey)
	}
	if ferr != nil {
		return nil, ferr
	}

	return s.enrich(ctx, item), nil
}

func (s *CartService) RemoveItem(ctx context.Context, itemID, ownerKey string) (*domain.CartLineItem, error) {
	v, err := s.breaker.Execute(func() (any, error) {
		return s.durable.Remove(ctx, itemID, ownerKey)
	})
	if err == nil {
		return s.enrich(ctx, v.(*domain.CartLineItem)), nil
	}
	if !errors.Is(err, cartstore.ErrItemNotFound) {
		log.Printf("durable cart backend unavailable, removing from memory: %v", err)
	}

	item, ferr := s.fallback.Remove(ctx, itemID, ownerKey)
	if errors.Is(ferr, cartstore.ErrItemNotFound) {
		if _, rerr := s.reclaim(ctx, itemID, ownerKey); rerr != nil {
			return nil, rerr
		}
		item, ferr = s.fallback.Remove(ctx, itemID, ownerKey)
	}
	if ferr != nil {
		return nil, ferr
	}

	return s.enrich(ctx, item), nil
}

func (s *CartService) ClearCart(ctx context.Context, ownerKey string) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.durable.Clear(ctx, ownerKey)
	})
	if err != nil {
		log.Printf("durable cart backend unavailable, clearing memory cart: %v", err)
	}

	// Clear the transient cart either way: the owner may have items left
	// over from an earlier degraded period.
	return s.fallback.Clear(ctx, ownerKey)
}

// reclaim recovers an item that exists in the transient backend under a
// different owner key, typically a session ID captured before the user
// signed in. The item is migrated to the requesting owner's cart; a miss
// across the whole keyspace is the only genuine not-found.
func (s *CartService) reclaim(ctx context.Context, itemID, ownerKey string) (*domain.CartLineItem, error) {
	item, err := s.fallback.Reclaim(ctx, itemID, ownerKey)
	if err != nil {
		return nil, err
	}

	log.Printf("recovered orphaned cart item %s into owner %s", itemID, ownerKey)
	return item, nil
}

func (s *CartService) enrich(ctx context.Context, item *domain.CartLineItem) *domain.CartLineItem {
	resolved := s.resolver.Resolve(ctx, item.VariantID)
	item.Variant = &resolved
	return item
}

func (s *CartService) enrichAll(ctx context.Context, items []domain.CartLineItem) []domain.CartLineItem {
	for i := range items {
		resolved := s.resolver.Resolve(ctx, items[i].VariantID)
		items[i].Variant = &resolved
	}
	return items
}
