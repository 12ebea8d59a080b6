package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/velostore/storefront/internal/cartstore"
	"github.com/velostore/storefront/internal/service"
)

type CartHandler struct {
	cart *service.CartService
}

func NewCartHandler(cart *service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type AddItemRequestDTO struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
	SessionID string `json:"sessionId"`
}

type UpdateQuantityRequestDTO struct {
	ItemID    string `json:"itemId"`
	Quantity  int    `json:"quantity"`
	SessionID string `json:"sessionId"`
}

// GetCart lists the caller's cart, each item enriched with live variant data.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ownerKey := resolveOwnerKey(r, r.URL.Query().Get("sessionId"))
	if ownerKey == "" {
		respondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	items, err := h.cart.ListItems(r.Context(), ownerKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondData(w, http.StatusOK, items, "cart retrieved")
}

// AddItem adds a variant to the cart or increments an existing line item.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.VariantID == "" {
		respondError(w, http.StatusBadRequest, "variantId is required")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}

	ownerKey := resolveOwnerKey(r, req.SessionID)
	if ownerKey == "" {
		respondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	item, err := h.cart.AddItem(r.Context(), ownerKey, req.VariantID, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondData(w, http.StatusCreated, item, "item added to cart")
}

// UpdateQuantity sets a line item's quantity; zero or below removes it.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.ItemID == "" {
		respondError(w, http.StatusBadRequest, "itemId is required")
		return
	}

	ownerKey := resolveOwnerKey(r, req.SessionID)
	if ownerKey == "" {
		respondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	item, err := h.cart.SetQuantity(r.Context(), req.ItemID, req.Quantity, ownerKey)
	if err != nil {
		respondCartError(w, err)
		return
	}

	if req.Quantity <= 0 {
		respondData(w, http.StatusOK, item, "item removed from cart")
		return
	}
	respondData(w, http.StatusOK, item, "cart updated")
}

// DeleteCart removes a single item (?itemId=) or the whole cart
// (?clearAll=true&sessionId=).
func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("clearAll") == "true" {
		ownerKey := resolveOwnerKey(r, query.Get("sessionId"))
		if ownerKey == "" {
			respondError(w, http.StatusBadRequest, "sessionId is required")
			return
		}

		if err := h.cart.ClearCart(r.Context(), ownerKey); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondData(w, http.StatusOK, nil, "cart cleared")
		return
	}

	itemID := query.Get("itemId")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "itemId or clearAll is required")
		return
	}

	ownerKey := resolveOwnerKey(r, query.Get("sessionId"))
	if ownerKey == "" {
		respondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	item, err := h.cart.RemoveItem(r.Context(), itemID, ownerKey)
	if err != nil {
		respondCartError(w, err)
		return
	}

	respondData(w, http.StatusOK, item, "item removed from cart")
}

// resolveOwnerKey picks the cart owner: an authenticated user ID wins over
// the anonymous session ID supplied with the request.
func resolveOwnerKey(r *http.Request, sessionID string) string {
	if userID := userIDFromContext(r.Context()); userID != "" {
		return userID
	}
	return sessionID
}

func respondCartError(w http.ResponseWriter, err error) {
	if errors.Is(err, cartstore.ErrItemNotFound) {
		respondError(w, http.StatusNotFound, "cart item not found")
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}
