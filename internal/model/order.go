package model

import "time"

// Order represents a placed order.
type Order struct {
	ID        int64     `json:"orderId" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// OrderLineItem is a cart line frozen into an order at checkout time. The
// sales price is captured at order creation so later catalogue changes do not
// rewrite order history.
type OrderLineItem struct {
	OrderID    int64   `json:"-" db:"order_id"`
	ProductID  string  `json:"productId" db:"product_id"`
	SalesPrice float64 `json:"salesPrice" db:"sales_price"`
	Quantity   int     `json:"quantity" db:"quantity"`
}

// CheckoutRequest carries the product IDs the user selected for checkout.
// Quantities and prices are deliberately absent: the store re-derives them
// from its own cart so a tampered client cannot alter pricing.
type CheckoutRequest struct {
	SelectedProductIDs []string `json:"selectedProductIds"`
}

// OrderReceipt is the response to a successful checkout.
type OrderReceipt struct {
	OrderID int64 `json:"orderId"`
}
