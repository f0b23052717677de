package cart

import "context"

// View is the surface the cart core exposes to the surrounding UI layer:
// a full cart re-render, the persistent item-count badge, and message and
// error surfacing. Implementations render however they like; the core only
// decides when.
type View interface {
	// RenderCart rebuilds the full cart view from the current state.
	RenderCart(state *State)

	// SetBadge updates the persistent cart-item-count indicator.
	SetBadge(count int)

	// Info surfaces a human-readable message to the user.
	Info(message string)

	// Error surfaces a human-readable error to the user.
	Error(message string)
}

// Confirmer asks the user to approve an order before submission.
type Confirmer interface {
	// Confirm presents the selected subset's summary and reports whether the
	// user approved. An error aborts the checkout the same way declining does,
	// except it is also returned to the caller.
	Confirm(ctx context.Context, summary Summary) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, summary Summary) (bool, error)

// Confirm calls the wrapped function.
func (f ConfirmerFunc) Confirm(ctx context.Context, summary Summary) (bool, error) {
	return f(ctx, summary)
}
