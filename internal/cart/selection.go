package cart

import "fmt"

// Selection is the set of product IDs the user has chosen for a checkout
// attempt. It is ephemeral UI intent, rebuilt from the interface (checked
// boxes, flags) each time checkout starts, and never stored on the cart
// itself.
type Selection struct {
	ids   map[string]struct{}
	order []string
}

// NewSelection creates a selection containing the given product IDs.
func NewSelection(productIDs ...string) *Selection {
	s := &Selection{
		ids: make(map[string]struct{}, len(productIDs)),
	}
	for _, id := range productIDs {
		s.Add(id)
	}
	return s
}

// Add inserts a product ID. Duplicates are ignored.
func (s *Selection) Add(productID string) {
	if _, exists := s.ids[productID]; exists {
		return
	}
	s.ids[productID] = struct{}{}
	s.order = append(s.order, productID)
}

// Contains reports whether a product ID is selected.
func (s *Selection) Contains(productID string) bool {
	_, exists := s.ids[productID]
	return exists
}

// Len returns the number of selected product IDs.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected product IDs in insertion order.
func (s *Selection) IDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Summary aggregates the selected subset of the cart for the confirmation
// prompt.
type Summary struct {
	Products      int      // distinct selected products
	TotalQuantity int      // units across selected lines
	Total         float64  // Σ selected line totals
	ProductIDs    []string // the surviving selection, cart-validated
}

// DisplayTotal formats the selected total for presentation.
func (s Summary) DisplayTotal() string {
	return fmt.Sprintf("%.2f", s.Total)
}

// Summarize computes the selected subset's aggregate over the current cart
// state. Selected IDs with no matching cart line are stale (removed since the
// last sync) and are dropped silently. The subset total is recomputed as
// quantity times price rather than trusted from the line, a guard against a
// stale lineTotal riding along in the selection.
func Summarize(state *State, sel *Selection) Summary {
	summary := Summary{}
	if sel == nil {
		return summary
	}

	for _, id := range sel.IDs() {
		item, ok := state.Item(id)
		if !ok {
			continue
		}
		summary.Products++
		summary.TotalQuantity += item.Quantity
		summary.Total += float64(item.Quantity) * item.Product.Price
		summary.ProductIDs = append(summary.ProductIDs, id)
	}

	return summary
}
