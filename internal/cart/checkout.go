package cart

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"shopfront/internal/client"
	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// Phase is a stage of the checkout flow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelectionPending
	PhaseConfirming
	PhaseSubmitting
	PhaseSuccess
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelectionPending:
		return "selection-pending"
	case PhaseConfirming:
		return "confirming"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

const checkoutFallbackMessage = "Checkout failed. Please try again."

// Orchestrator drives a checkout attempt from selection through confirmation
// and submission to reconciliation. After any outcome the cart view is
// reconciled by a full reload from the store, never by locally removing the
// submitted lines: the server may apply rules (taxes, partial fulfilment,
// inventory holds) the client cannot see, so local arithmetic would drift.
type Orchestrator struct {
	state       *State
	store       client.CartStore
	orders      client.OrderPlacer
	view        View
	confirmer   Confirmer
	reloadDelay time.Duration
	inFlight    atomic.Bool
	logger      zerolog.Logger
}

// NewOrchestrator creates a checkout orchestrator. reloadDelay is the pause
// between surfacing the success message and re-rendering the reloaded cart,
// so the message stays readable.
func NewOrchestrator(
	state *State,
	store client.CartStore,
	orders client.OrderPlacer,
	view View,
	confirmer Confirmer,
	reloadDelay time.Duration,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		state:       state,
		store:       store,
		orders:      orders,
		view:        view,
		confirmer:   confirmer,
		reloadDelay: reloadDelay,
		logger:      logger.With().Str("component", "checkout").Logger(),
	}
}

// Checkout runs one checkout attempt for the given selection.
//
// The flow is Idle -> SelectionPending -> Confirming -> Submitting and ends
// in Success or Failed. An empty selection (after dropping IDs no longer in
// the cart) aborts before any network call. A declined confirmation aborts
// with no mutation. Submission failure leaves the local state untouched.
// Submission success surfaces the order number, then unconditionally reloads
// the cart from the store and re-renders.
//
// Only one checkout may be in flight at a time; a second call while the
// first is unresolved returns ErrCheckoutInFlight.
func (o *Orchestrator) Checkout(ctx context.Context, sel *Selection) (*model.OrderReceipt, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		o.logger.Warn().Msg("checkout already in flight")
		return nil, model.ErrCheckoutInFlight
	}
	defer o.inFlight.Store(false)

	o.logger.Debug().Str("phase", PhaseSelectionPending.String()).Msg("checkout started")

	summary := Summarize(o.state, sel)
	if summary.Products == 0 {
		o.logger.Warn().Msg("checkout attempted with empty selection")
		o.view.Error(model.ErrEmptySelection.Message)
		return nil, model.ErrEmptySelection
	}

	o.logger.Debug().
		Str("phase", PhaseConfirming.String()).
		Int("products", summary.Products).
		Int("total_quantity", summary.TotalQuantity).
		Str("total", summary.DisplayTotal()).
		Msg("requesting confirmation")

	confirmed, err := o.confirmer.Confirm(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !confirmed {
		o.logger.Info().Msg("checkout declined by user")
		return nil, model.ErrCheckoutDeclined
	}

	o.logger.Debug().
		Str("phase", PhaseSubmitting.String()).
		Int("products", summary.Products).
		Msg("submitting order")

	receipt, err := o.orders.Submit(ctx, summary.ProductIDs)
	if err != nil {
		o.logger.Error().Err(err).Str("phase", PhaseFailed.String()).Msg("order submission failed")
		o.view.Error(failureMessage(err))
		return nil, err
	}

	o.logger.Info().
		Str("phase", PhaseSuccess.String()).
		Int64("order_id", receipt.OrderID).
		Msg("order placed")

	o.view.Info(fmt.Sprintf("Order #%d placed successfully.", receipt.OrderID))

	// The server decides what remains in the cart after an order; reload
	// rather than guessing which lines it removed.
	if err := o.reload(ctx); err != nil {
		return receipt, err
	}

	if o.reloadDelay > 0 {
		select {
		case <-time.After(o.reloadDelay):
		case <-ctx.Done():
			return receipt, ctx.Err()
		}
	}

	o.view.RenderCart(o.state)

	return receipt, nil
}

// reload fetches the current snapshot from the store and replaces the local
// state wholesale. On failure the prior state survives and the error is
// surfaced as a load failure.
func (o *Orchestrator) reload(ctx context.Context) error {
	snap, err := o.store.Get(ctx)
	if err != nil {
		o.logger.Error().Err(err).Msg("cart reload after checkout failed")
		o.view.Error(loadFailedMessage)
		return err
	}

	if err := o.state.Replace(snap); err != nil {
		o.view.Error(loadFailedMessage)
		return err
	}

	o.view.SetBadge(o.state.ItemCount())

	return nil
}

// failureMessage prefers the server-supplied message over the generic
// fallback.
func failureMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return checkoutFallbackMessage
}
