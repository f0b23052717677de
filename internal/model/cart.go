package model

// LineItem is one product entry in a cart: the product, a unit count and the
// server-computed subtotal for the line.
type LineItem struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// CartSnapshot is the canonical cart structure the store returns after every
// mutation or load. Items is keyed by product ID. Total is the authoritative
// figure for the whole cart; clients display it as-is rather than re-summing
// line totals.
type CartSnapshot struct {
	Total float64             `json:"total"`
	Items map[string]LineItem `json:"items"`
}

// QuantityUpdate is the request body for changing the unit count of a line
// already in the cart.
type QuantityUpdate struct {
	Quantity int `json:"quantity"`
}
