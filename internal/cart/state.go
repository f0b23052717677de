// Package cart holds the client-side cart: a local mirror of the remote
// authoritative cart, the transient checkout selection, and the checkout
// orchestration that keeps the two worlds consistent.
package cart

import (
	"fmt"
	"sort"
	"sync"

	"shopfront/internal/model"
)

// State is the local mirror of the remote cart. It is only ever rebuilt
// wholesale from a server snapshot; nothing here patches an item or the total
// on its own, so the mirror can never drift into arithmetic the server did
// not produce. Overlapping in-flight responses may replace it from different
// goroutines; the mutex makes each replacement atomic and the last response
// wins.
type State struct {
	mu    sync.RWMutex
	items map[string]model.LineItem
	order []string // product IDs in display order
	total float64
}

// NewState creates an empty cart state.
func NewState() *State {
	return &State{
		items: make(map[string]model.LineItem),
	}
}

// Replace discards the current state and rebuilds it entirely from the
// snapshot. Applying the same snapshot twice yields the same state. A nil
// snapshot or nil item map is rejected and the prior state survives intact.
func (s *State) Replace(snap *model.CartSnapshot) error {
	if snap == nil || snap.Items == nil {
		return model.ErrMalformedSnapshot
	}

	items := make(map[string]model.LineItem, len(snap.Items))
	order := make([]string, 0, len(snap.Items))
	for id, item := range snap.Items {
		items[id] = item
		order = append(order, id)
	}
	sortByName(order, items)

	s.mu.Lock()
	s.items = items
	s.order = order
	s.total = snap.Total
	s.mu.Unlock()

	return nil
}

// Reset empties the state without talking to the server. Used on logout.
func (s *State) Reset() {
	s.mu.Lock()
	s.items = make(map[string]model.LineItem)
	s.order = nil
	s.total = 0
	s.mu.Unlock()
}

// ItemCount returns the number of distinct line items.
func (s *State) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// TotalQuantity returns the sum of unit counts across all lines.
func (s *State) TotalQuantity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Total returns the server-supplied cart total.
func (s *State) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// DisplayTotal formats the cart total for presentation. The value is the
// server's figure verbatim; summing line totals client-side could disagree
// with it through rounding or server-side discounts.
func (s *State) DisplayTotal() string {
	return fmt.Sprintf("%.2f", s.Total())
}

// Item returns the line for a product ID.
func (s *State) Item(productID string) (model.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[productID]
	return item, ok
}

// Items returns all lines in display order.
func (s *State) Items() []model.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.LineItem, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.items[id])
	}
	return items
}

// ProductIDs returns the product IDs of all lines in display order.
func (s *State) ProductIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Snapshot returns a copy of the state as a snapshot structure. The item map
// is copied so callers can hold it across later replacements.
func (s *State) Snapshot() *model.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make(map[string]model.LineItem, len(s.items))
	for id, item := range s.items {
		items[id] = item
	}
	return &model.CartSnapshot{Total: s.total, Items: items}
}

// sortByName orders product IDs by product name, then ID for ties. Snapshots
// arrive as maps, so display order has to be imposed locally.
func sortByName(order []string, items map[string]model.LineItem) {
	sort.Slice(order, func(i, j int) bool {
		a, b := items[order[i]], items[order[j]]
		if a.Product.Name != b.Product.Name {
			return a.Product.Name < b.Product.Name
		}
		return a.Product.ID < b.Product.ID
	})
}
