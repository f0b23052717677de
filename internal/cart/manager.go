package cart

import (
	"context"

	"shopfront/internal/client"

	"github.com/rs/zerolog"
)

// User-facing failure messages for cart mutations. Failures never change the
// local state; the user retries by re-triggering the action.
const (
	addFailedMessage    = "Add to cart failed."
	loadFailedMessage   = "Load cart failed."
	clearFailedMessage  = "Empty cart failed."
	updateFailedMessage = "Update cart failed."
)

// Manager performs the cart mutations: add, load, clear and quantity update.
// Every successful operation replaces the local state wholesale with the
// snapshot the store returned; every failure surfaces a message and leaves
// the state exactly as it was.
type Manager struct {
	state  *State
	store  client.CartStore
	view   View
	logger zerolog.Logger
}

// NewManager creates a cart manager operating on the given state.
func NewManager(state *State, store client.CartStore, view View, logger zerolog.Logger) *Manager {
	return &Manager{
		state:  state,
		store:  store,
		view:   view,
		logger: logger.With().Str("component", "cart-manager").Logger(),
	}
}

// Add requests one unit of a product from the store and adopts the returned
// snapshot.
func (m *Manager) Add(ctx context.Context, productID string) error {
	snap, err := m.store.Add(ctx, productID)
	if err != nil {
		m.logger.Error().Err(err).Str("product_id", productID).Msg("add to cart failed")
		m.view.Error(addFailedMessage)
		return err
	}

	if err := m.state.Replace(snap); err != nil {
		m.view.Error(addFailedMessage)
		return err
	}

	m.view.SetBadge(m.state.ItemCount())

	return nil
}

// UpdateQuantity sets the unit count of a cart line and adopts the returned
// snapshot.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	snap, err := m.store.UpdateQuantity(ctx, productID, quantity)
	if err != nil {
		m.logger.Error().Err(err).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("quantity update failed")
		m.view.Error(updateFailedMessage)
		return err
	}

	if err := m.state.Replace(snap); err != nil {
		m.view.Error(updateFailedMessage)
		return err
	}

	m.view.SetBadge(m.state.ItemCount())
	m.view.RenderCart(m.state)

	return nil
}

// Load fetches the current snapshot unconditionally and adopts it. This is
// the resynchronisation primitive used on session start and after checkout.
func (m *Manager) Load(ctx context.Context) error {
	snap, err := m.store.Get(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("cart load failed")
		m.view.Error(loadFailedMessage)
		return err
	}

	if err := m.state.Replace(snap); err != nil {
		m.view.Error(loadFailedMessage)
		return err
	}

	m.view.SetBadge(m.state.ItemCount())

	return nil
}

// Clear asks the store to empty the cart and adopts the returned snapshot.
func (m *Manager) Clear(ctx context.Context) error {
	snap, err := m.store.Clear(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("clear cart failed")
		m.view.Error(clearFailedMessage)
		return err
	}

	if err := m.state.Replace(snap); err != nil {
		m.view.Error(clearFailedMessage)
		return err
	}

	m.view.SetBadge(m.state.ItemCount())
	m.view.RenderCart(m.state)

	return nil
}
