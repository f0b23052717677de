package service

import (
	"context"

	"shopfront/internal/model"
)

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// CartService defines operations on a user's shopping cart. Every mutation
// returns the full post-mutation snapshot so clients can replace their local
// state wholesale.
type CartService interface {
	// Get assembles the current cart snapshot for a user.
	Get(ctx context.Context, userID string) (*model.CartSnapshot, error)

	// Add puts one unit of a product into the cart and returns the new snapshot.
	Add(ctx context.Context, userID, productID string) (*model.CartSnapshot, error)

	// UpdateQuantity sets the unit count of a cart line and returns the new snapshot.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*model.CartSnapshot, error)

	// Clear empties the cart and returns the (empty) snapshot.
	Clear(ctx context.Context, userID string) (*model.CartSnapshot, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Checkout converts the selected cart lines into an order and removes them
	// from the cart. An empty selection means the whole cart.
	Checkout(ctx context.Context, userID string, selectedProductIDs []string) (*model.OrderReceipt, error)

	// GetByID retrieves an order by its ID with its line items.
	GetByID(ctx context.Context, id int64) (*model.Order, []model.OrderLineItem, error)
}
