package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"scrunchie-store/models"
	"scrunchie-store/store"
)

// CartController handles cart-related requests
type CartController struct {
	Users    store.UserStore
	Products store.ProductStore
}

// NewCartController creates a new CartController
func NewCartController(users store.UserStore, products store.ProductStore) *CartController {
	return &CartController{
		Users:    users,
		Products: products,
	}
}

// AddToCart increments the quantity of a product in the user's cart, starting
// at 1. The stored cart is normalized before the mutation so legacy entries
// never survive a write.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var body struct {
		ItemID string `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ItemID == "" {
		respondFailure(w, "Product ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := cc.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondFailure(w, "User not found")
			return
		}
		respondFailure(w, "Failed to load cart")
		return
	}

	cart := models.NormalizeCart(user.CartData)
	cart[body.ItemID]++

	if err := cc.Users.SaveCart(ctx, claims.UserID, cart); err != nil {
		respondFailure(w, "Failed to update cart")
		return
	}
	respondMessage(w, "Product added to cart successfully")
}

// UpdateCart overwrites a product's quantity. A quantity of zero or less
// removes the entry; this is the sole removal path. Malformed quantities are
// coerced through the same normalization as stored carts, never rejected.
func (cc *CartController) UpdateCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var body struct {
		ItemID   string      `json:"itemId"`
		Quantity interface{} `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ItemID == "" {
		respondFailure(w, "Product ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := cc.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondFailure(w, "User not found")
			return
		}
		respondFailure(w, "Failed to load cart")
		return
	}

	cart := models.NormalizeCart(user.CartData)

	// Route the requested quantity through the reconciler so this handler
	// never branches on its runtime shape. Anything that does not resolve
	// to a positive integer removes the entry.
	requested := models.NormalizeCart(map[string]interface{}{body.ItemID: body.Quantity})
	if quantity, keep := requested[body.ItemID]; keep {
		cart[body.ItemID] = quantity
	} else {
		delete(cart, body.ItemID)
	}

	if err := cc.Users.SaveCart(ctx, claims.UserID, cart); err != nil {
		respondFailure(w, "Failed to update cart")
		return
	}
	respondMessage(w, "Cart updated successfully")
}

// GetCart returns the user's cart in canonical form. Entries referencing
// products no longer in the catalog are dropped, and the cleanup is written
// back best-effort.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := cc.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondFailure(w, "User not found")
			return
		}
		respondFailure(w, "Failed to load cart")
		return
	}

	cart := models.NormalizeCart(user.CartData)

	if len(cart) > 0 {
		ids := make([]string, 0, len(cart))
		for itemID := range cart {
			ids = append(ids, itemID)
		}
		products, err := cc.Products.GetProductsByIDs(ctx, ids)
		if err == nil {
			known := make(map[string]bool, len(products))
			for _, p := range products {
				known[p.ID.Hex()] = true
			}
			if models.DropUnknown(cart, known) {
				// Best effort; the next read will retry the cleanup.
				if err := cc.Users.SaveCart(ctx, claims.UserID, cart); err != nil {
					log.Printf("Failed to persist cart cleanup for user %s: %v", claims.UserID, err)
				}
			}
		}
	}

	respond(w, map[string]interface{}{"success": true, "cartData": cart})
}

// ClearCart replaces the user's cart with an empty mapping.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := cc.Users.ClearCart(ctx, claims.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondFailure(w, "User not found")
			return
		}
		respondFailure(w, "Failed to clear cart")
		return
	}
	respondMessage(w, "Cart cleared successfully")
}
