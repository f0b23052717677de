package cart

import (
	"context"
	"time"

	"shopfront/internal/client"

	"github.com/rs/zerolog"
)

// Session owns one user's cart for the lifetime of their sign-in: the state
// mirror, the mutation manager and the checkout orchestrator, all sharing the
// same state. It is created on session start and ended on logout; nothing
// here is a package-level singleton, so two sessions never share cart state.
type Session struct {
	State    *State
	Manager  *Manager
	Checkout *Orchestrator

	authenticated bool
	logger        zerolog.Logger
}

// Options tunes session construction.
type Options struct {
	// ReloadDelay is the pause between the checkout success message and the
	// cart re-render.
	ReloadDelay time.Duration

	// Authenticated marks whether the session carries credentials. Start only
	// loads the cart for authenticated sessions; the server would reject an
	// anonymous load anyway.
	Authenticated bool
}

// NewSession wires a cart session from its collaborators.
func NewSession(
	store client.CartStore,
	orders client.OrderPlacer,
	view View,
	confirmer Confirmer,
	opts Options,
	logger zerolog.Logger,
) *Session {
	state := NewState()
	return &Session{
		State:         state,
		Manager:       NewManager(state, store, view, logger),
		Checkout:      NewOrchestrator(state, store, orders, view, confirmer, opts.ReloadDelay, logger),
		authenticated: opts.Authenticated,
		logger:        logger.With().Str("component", "cart-session").Logger(),
	}
}

// Start performs the initial cart load for authenticated sessions.
// Unauthenticated sessions start with an empty local cart.
func (s *Session) Start(ctx context.Context) error {
	if !s.authenticated {
		s.logger.Debug().Msg("unauthenticated session, skipping initial cart load")
		return nil
	}
	return s.Manager.Load(ctx)
}

// End tears the session down on logout, discarding the local cart state.
func (s *Session) End() {
	s.State.Reset()
	s.logger.Debug().Msg("cart session ended")
}
