// Package client talks to the remote cart store and order endpoints on
// behalf of the local cart. The rest of the client core depends only on the
// interfaces here, never on the wire format.
package client

import (
	"context"
	"fmt"

	"shopfront/internal/model"
)

// CartStore is the remote authoritative cart. Every mutation returns the
// complete post-mutation snapshot; callers replace their local state with it
// wholesale rather than patching fields.
type CartStore interface {
	// Add puts one unit of a product into the cart.
	Add(ctx context.Context, productID string) (*model.CartSnapshot, error)

	// UpdateQuantity sets the unit count of a cart line.
	UpdateQuantity(ctx context.Context, productID string, quantity int) (*model.CartSnapshot, error)

	// Get fetches the current cart snapshot.
	Get(ctx context.Context) (*model.CartSnapshot, error)

	// Clear empties the cart.
	Clear(ctx context.Context) (*model.CartSnapshot, error)
}

// OrderPlacer submits an order for a set of selected product IDs. The store
// re-derives quantities and prices from its own cart.
type OrderPlacer interface {
	Submit(ctx context.Context, productIDs []string) (*model.OrderReceipt, error)
}

// Credentials supplies the auth context attached to every request. The
// content is opaque to the cart core; a nil Credentials sends requests
// unauthenticated and leaves rejection to the server.
type Credentials interface {
	Headers() map[string]string
}

// StaticCredentials is a fixed header set: an API key for the service and a
// user id identifying the cart owner.
type StaticCredentials struct {
	APIKey string
	UserID string
}

// Headers returns the auth headers for a request.
func (c *StaticCredentials) Headers() map[string]string {
	headers := make(map[string]string, 2)
	if c.APIKey != "" {
		headers["X-API-Key"] = c.APIKey
	}
	if c.UserID != "" {
		headers["X-User-ID"] = c.UserID
	}
	return headers
}

// APIError is an application-level failure reported by the server. Message
// carries the server-supplied text when the response body included one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}
