package repository

import (
	"context"

	"shopfront/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// ValidateProductsExist checks if all provided product IDs exist in the database.
	// Returns error if any product ID does not exist.
	ValidateProductsExist(ctx context.Context, ids []string) error
}

// CartRepository defines the interface for shopping cart data access operations.
// A cart is the set of rows in shopping_cart owned by one user.
type CartRepository interface {
	// GetByUser retrieves all cart lines for a user, joined with product details.
	GetByUser(ctx context.Context, userID string) ([]model.LineItem, error)

	// AddProduct inserts a cart row or bumps the quantity of an existing one.
	AddProduct(ctx context.Context, userID, productID string, quantity int) error

	// UpdateQuantity sets the quantity of an existing cart row.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error

	// RemoveItem deletes a single cart row within the provided transaction.
	RemoveItem(ctx context.Context, tx pgx.Tx, userID, productID string) error

	// Clear deletes all cart rows for a user.
	Clear(ctx context.Context, userID string) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction and
	// populates order.ID from the generated sequence value.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateLineItems inserts the order's line items within the provided transaction.
	CreateLineItems(ctx context.Context, tx pgx.Tx, items []model.OrderLineItem) error

	// GetByID retrieves an order by its ID along with its line items.
	GetByID(ctx context.Context, id int64) (*model.Order, []model.OrderLineItem, error)
}
