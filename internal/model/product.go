package model

// Product represents a storefront product as it appears inside a cart line.
// Everything beyond Price is descriptive and passed through to the display layer untouched.
type Product struct {
	ID          string  `json:"productId" db:"id"`
	Name        string  `json:"name" db:"name"`
	Price       float64 `json:"price" db:"price"`
	Category    string  `json:"category" db:"category"`
	Description string  `json:"description" db:"description"`
	ImageURL    string  `json:"imageUrl" db:"image_url"`
}
