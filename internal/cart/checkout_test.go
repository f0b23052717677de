package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shopfront/internal/client"
	"shopfront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartStore is a mock implementation of client.CartStore.
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Add(ctx context.Context, productID string) (*model.CartSnapshot, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartSnapshot), args.Error(1)
}

func (m *MockCartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) (*model.CartSnapshot, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartSnapshot), args.Error(1)
}

func (m *MockCartStore) Get(ctx context.Context) (*model.CartSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartSnapshot), args.Error(1)
}

func (m *MockCartStore) Clear(ctx context.Context) (*model.CartSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartSnapshot), args.Error(1)
}

// MockOrderPlacer is a mock implementation of client.OrderPlacer.
type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) Submit(ctx context.Context, productIDs []string) (*model.OrderReceipt, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderReceipt), args.Error(1)
}

// recordingView captures everything the core surfaces to the UI layer.
type recordingView struct {
	mu      sync.Mutex
	infos   []string
	errors  []string
	badges  []int
	renders int
}

func (v *recordingView) RenderCart(*State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders++
}

func (v *recordingView) SetBadge(count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.badges = append(v.badges, count)
}

func (v *recordingView) Info(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.infos = append(v.infos, message)
}

func (v *recordingView) Error(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, message)
}

func alwaysConfirm(context.Context, Summary) (bool, error) { return true, nil }

func newTestOrchestrator(
	state *State,
	store client.CartStore,
	orders client.OrderPlacer,
	view View,
	confirm ConfirmerFunc,
) *Orchestrator {
	return NewOrchestrator(state, store, orders, view, confirm, 0, zerolog.Nop())
}

func TestOrchestrator_EmptySelectionAborts(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1()))

	store := new(MockCartStore)
	orders := new(MockOrderPlacer)
	view := &recordingView{}

	o := newTestOrchestrator(state, store, orders, view, alwaysConfirm)

	receipt, err := o.Checkout(context.Background(), NewSelection())

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEmptySelection)
	assert.Nil(t, receipt)
	assert.Equal(t, []string{model.ErrEmptySelection.Message}, view.errors)

	// The guard fires before any network traffic.
	orders.AssertNotCalled(t, "Submit")
	store.AssertNotCalled(t, "Get")
}

func TestOrchestrator_StaleOnlySelectionAborts(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1()))

	store := new(MockCartStore)
	orders := new(MockOrderPlacer)
	view := &recordingView{}

	o := newTestOrchestrator(state, store, orders, view, alwaysConfirm)

	// Every selected id has left the cart since the selection was built.
	_, err := o.Checkout(context.Background(), NewSelection("P8", "P9"))

	assert.ErrorIs(t, err, model.ErrEmptySelection)
	orders.AssertNotCalled(t, "Submit")
}

func TestOrchestrator_DeclinedConfirmationAborts(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1()))
	before := state.Snapshot()

	store := new(MockCartStore)
	orders := new(MockOrderPlacer)
	view := &recordingView{}

	var confirmed Summary
	decline := func(_ context.Context, s Summary) (bool, error) {
		confirmed = s
		return false, nil
	}

	o := newTestOrchestrator(state, store, orders, view, decline)

	receipt, err := o.Checkout(context.Background(), NewSelection("P1"))

	assert.ErrorIs(t, err, model.ErrCheckoutDeclined)
	assert.Nil(t, receipt)
	assert.Equal(t, before, state.Snapshot())
	orders.AssertNotCalled(t, "Submit")

	// The prompt saw the selected subset's summary.
	assert.Equal(t, 1, confirmed.Products)
	assert.Equal(t, 10.00, confirmed.Total)
}

func TestOrchestrator_SuccessReloadsFromStore(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1P2()))

	reloaded := snapshotP1() // what the server says remains after the order

	store := new(MockCartStore)
	store.On("Get", mock.Anything).Return(reloaded, nil).Once()

	orders := new(MockOrderPlacer)
	orders.On("Submit", mock.Anything, []string{"P2"}).
		Return(&model.OrderReceipt{OrderID: 42}, nil)

	view := &recordingView{}

	o := newTestOrchestrator(state, store, orders, view, alwaysConfirm)

	receipt, err := o.Checkout(context.Background(), NewSelection("P2"))

	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, int64(42), receipt.OrderID)

	// Success message quotes the order number.
	require.Len(t, view.infos, 1)
	assert.Contains(t, view.infos[0], "42")

	// The final state is exactly the reloaded snapshot, not the result of
	// local arithmetic removal.
	assert.Equal(t, reloaded, state.Snapshot())
	assert.Equal(t, []int{1}, view.badges)
	assert.Equal(t, 1, view.renders)

	store.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestOrchestrator_SubmitsOnlySelectedIDs(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1P2()))

	store := new(MockCartStore)
	store.On("Get", mock.Anything).Return(snapshotP1P2(), nil)

	orders := new(MockOrderPlacer)
	orders.On("Submit", mock.Anything, []string{"P1"}).
		Return(&model.OrderReceipt{OrderID: 7}, nil)

	o := newTestOrchestrator(state, store, orders, &recordingView{}, alwaysConfirm)

	_, err := o.Checkout(context.Background(), NewSelection("P1"))

	require.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestOrchestrator_FailureLeavesStateUntouched(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1P2()))
	before := state.Snapshot()

	store := new(MockCartStore)
	orders := new(MockOrderPlacer)
	orders.On("Submit", mock.Anything, mock.Anything).
		Return(nil, &client.APIError{Status: 409, Message: "Inventory unavailable"})

	view := &recordingView{}

	o := newTestOrchestrator(state, store, orders, view, alwaysConfirm)

	receipt, err := o.Checkout(context.Background(), NewSelection("P1"))

	require.Error(t, err)
	assert.Nil(t, receipt)

	// Server-supplied message wins over the generic fallback.
	assert.Equal(t, []string{"Inventory unavailable"}, view.errors)
	assert.Equal(t, before, state.Snapshot())

	// No reload on failure.
	store.AssertNotCalled(t, "Get")
}

func TestOrchestrator_FailureWithoutServerMessageUsesFallback(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1()))

	store := new(MockCartStore)
	orders := new(MockOrderPlacer)
	orders.On("Submit", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	view := &recordingView{}

	o := newTestOrchestrator(state, store, orders, view, alwaysConfirm)

	_, err := o.Checkout(context.Background(), NewSelection("P1"))

	require.Error(t, err)
	assert.Equal(t, []string{checkoutFallbackMessage}, view.errors)
}

func TestOrchestrator_ReloadFailureKeepsPriorState(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1P2()))
	before := state.Snapshot()

	store := new(MockCartStore)
	store.On("Get", mock.Anything).Return(nil, errors.New("connection reset"))

	orders := new(MockOrderPlacer)
	orders.On("Submit", mock.Anything, mock.Anything).
		Return(&model.OrderReceipt{OrderID: 9}, nil)

	view := &recordingView{}

	o := newTestOrchestrator(state, store, orders, view, alwaysConfirm)

	receipt, err := o.Checkout(context.Background(), NewSelection("P1"))

	// The order went through even though the reload did not.
	require.Error(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, int64(9), receipt.OrderID)
	assert.Equal(t, before, state.Snapshot())
	assert.Equal(t, []string{loadFailedMessage}, view.errors)
}

func TestOrchestrator_SingleInFlightGuard(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1()))

	store := new(MockCartStore)
	store.On("Get", mock.Anything).Return(snapshotP1(), nil)

	orders := new(MockOrderPlacer)
	orders.On("Submit", mock.Anything, mock.Anything).
		Return(&model.OrderReceipt{OrderID: 1}, nil)

	view := &recordingView{}

	started := make(chan struct{})
	release := make(chan struct{})
	slowConfirm := func(context.Context, Summary) (bool, error) {
		close(started)
		<-release
		return true, nil
	}

	o := newTestOrchestrator(state, store, orders, view, slowConfirm)

	done := make(chan error, 1)
	go func() {
		_, err := o.Checkout(context.Background(), NewSelection("P1"))
		done <- err
	}()

	<-started

	// Second attempt while the first is unresolved is refused outright.
	_, err := o.Checkout(context.Background(), NewSelection("P1"))
	assert.ErrorIs(t, err, model.ErrCheckoutInFlight)

	close(release)
	require.NoError(t, <-done)

	orders.AssertNumberOfCalls(t, "Submit", 1)
}

func TestOrchestrator_ReloadDelayRespectsContext(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1()))

	store := new(MockCartStore)
	store.On("Get", mock.Anything).Return(snapshotP1(), nil)

	orders := new(MockOrderPlacer)
	orders.On("Submit", mock.Anything, mock.Anything).
		Return(&model.OrderReceipt{OrderID: 3}, nil)

	view := &recordingView{}

	o := NewOrchestrator(state, store, orders, view, ConfirmerFunc(alwaysConfirm),
		time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := o.Checkout(ctx, NewSelection("P1"))
		done <- err
	}()

	// Wait for the reload to land, then cancel during the delay.
	require.Eventually(t, func() bool {
		view.mu.Lock()
		defer view.mu.Unlock()
		return len(view.badges) > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, view.renders)
}
