package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"scrunchie-store/models"
	"scrunchie-store/store"
)

// ProductController handles product-related requests
type ProductController struct {
	Products store.ProductStore
}

// NewProductController creates a new ProductController
func NewProductController(products store.ProductStore) *ProductController {
	return &ProductController{Products: products}
}

// ListProducts returns the whole catalog. Public endpoint used by the
// storefront to bootstrap.
func (pc *ProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	products, err := pc.Products.ListProducts(ctx)
	if err != nil {
		respondFailure(w, "Failed to retrieve products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	respond(w, map[string]interface{}{"success": true, "products": products})
}

// GetProductByID returns a single product.
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Products.GetProduct(ctx, params["id"])
	if err != nil {
		respondFailure(w, "Product not found")
		return
	}
	respond(w, map[string]interface{}{"success": true, "product": product})
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondFailure(w, "Invalid input")
		return
	}
	if product.Name == "" || product.Price < 0 {
		respondFailure(w, "Product name and a non-negative price are required")
		return
	}
	if product.Date == 0 {
		product.Date = time.Now().UnixMilli()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pc.Products.CreateProduct(ctx, &product)
	if err != nil {
		respondFailure(w, "Failed to add product")
		return
	}
	respond(w, map[string]interface{}{"success": true, "message": "Product Added", "id": id})
}

// UpdateProduct handles updating a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondFailure(w, "Invalid input")
		return
	}
	if product.Name == "" || product.Price < 0 {
		respondFailure(w, "Product name and a non-negative price are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := pc.Products.UpdateProduct(ctx, params["id"], &product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondFailure(w, "Product not found")
			return
		}
		respondFailure(w, "Failed to update product")
		return
	}
	respondMessage(w, "Product Updated")
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := pc.Products.DeleteProduct(ctx, params["id"]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondFailure(w, "Product not found")
			return
		}
		respondFailure(w, "Failed to remove product")
		return
	}
	respondMessage(w, "Product removed")
}
