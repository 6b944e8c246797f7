package store

import (
	"context"
	"errors"

	"scrunchie-store/models"
)

// ErrNotFound is returned when a referenced user, product, or order does not
// exist.
var ErrNotFound = errors.New("not found")

// UserStore persists users, including the raw cart mapping stored on the user
// document.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (string, error)
	UpdateProfile(ctx context.Context, id, name, phone, address string) error
	SetWishlist(ctx context.Context, id string, wishlist []string) error
	SaveCart(ctx context.Context, userID string, cart map[string]int) error
	ClearCart(ctx context.Context, userID string) error
}

// ProductStore persists the catalog.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (string, error)
	UpdateProduct(ctx context.Context, id string, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// OrderStore persists placed orders. Orders are never deleted.
type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) (string, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderByStripeSession(ctx context.Context, sessionID string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	CancelOrder(ctx context.Context, id string, c models.Cancellation) error
}
