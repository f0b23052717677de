package cart

import (
	"sync"
	"testing"

	"shopfront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotP1() *model.CartSnapshot {
	return &model.CartSnapshot{
		Total: 10.00,
		Items: map[string]model.LineItem{
			"P1": {
				Product:   model.Product{ID: "P1", Name: "Product 1", Price: 10.00},
				Quantity:  1,
				LineTotal: 10.00,
			},
		},
	}
}

func snapshotP1P2() *model.CartSnapshot {
	return &model.CartSnapshot{
		Total: 25.00,
		Items: map[string]model.LineItem{
			"P1": {
				Product:   model.Product{ID: "P1", Name: "Product 1", Price: 10.00},
				Quantity:  1,
				LineTotal: 10.00,
			},
			"P2": {
				Product:   model.Product{ID: "P2", Name: "Product 2", Price: 7.50},
				Quantity:  2,
				LineTotal: 15.00,
			},
		},
	}
}

func TestState_Replace(t *testing.T) {
	state := NewState()

	require.NoError(t, state.Replace(snapshotP1()))

	assert.Equal(t, 1, state.ItemCount())
	assert.Equal(t, 1, state.TotalQuantity())
	assert.Equal(t, 10.00, state.Total())

	item, ok := state.Item("P1")
	require.True(t, ok)
	assert.Equal(t, "P1", item.Product.ID)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 10.00, item.LineTotal)
}

func TestState_ReplaceIsIdempotent(t *testing.T) {
	state := NewState()

	require.NoError(t, state.Replace(snapshotP1P2()))
	first := state.Snapshot()

	require.NoError(t, state.Replace(snapshotP1P2()))
	second := state.Snapshot()

	assert.Equal(t, first, second)
}

func TestState_ReplaceDiscardsPriorState(t *testing.T) {
	state := NewState()

	require.NoError(t, state.Replace(snapshotP1P2()))
	require.NoError(t, state.Replace(snapshotP1()))

	// No trace of P2 survives; the replace is a rebuild, not a merge.
	assert.Equal(t, 1, state.ItemCount())
	_, ok := state.Item("P2")
	assert.False(t, ok)
	assert.Equal(t, 10.00, state.Total())
}

func TestState_ReplaceRejectsMalformedSnapshot(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1()))
	before := state.Snapshot()

	tests := []struct {
		name string
		snap *model.CartSnapshot
	}{
		{name: "nil snapshot", snap: nil},
		{name: "nil items", snap: &model.CartSnapshot{Total: 5.00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := state.Replace(tt.snap)

			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrMalformedSnapshot)
			assert.Equal(t, before, state.Snapshot())
		})
	}
}

func TestState_ReplaceIsAtomic(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1()))

	// Readers racing a replace must see either the old snapshot whole or the
	// new snapshot whole, never P1's items with P1P2's total.
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if i%2 == 0 {
				_ = state.Replace(snapshotP1P2())
			} else {
				_ = state.Replace(snapshotP1())
			}
		}
		close(stop)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			snap := state.Snapshot()
			switch len(snap.Items) {
			case 1:
				assert.Equal(t, 10.00, snap.Total)
			case 2:
				assert.Equal(t, 25.00, snap.Total)
			default:
				t.Errorf("unexpected item count %d", len(snap.Items))
				return
			}
		}
	}()

	wg.Wait()
}

func TestState_DisplayTotal(t *testing.T) {
	state := NewState()

	require.NoError(t, state.Replace(&model.CartSnapshot{
		Total: 7.5,
		Items: map[string]model.LineItem{},
	}))

	// The display value is the server figure formatted, not a client-side sum.
	assert.Equal(t, "7.50", state.DisplayTotal())
	assert.Equal(t, 0, state.ItemCount())
}

func TestState_ItemsAreInDisplayOrder(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1P2()))

	items := state.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "P1", items[0].Product.ID)
	assert.Equal(t, "P2", items[1].Product.ID)

	assert.Equal(t, []string{"P1", "P2"}, state.ProductIDs())
}

func TestState_Reset(t *testing.T) {
	state := NewState()
	require.NoError(t, state.Replace(snapshotP1P2()))

	state.Reset()

	assert.Equal(t, 0, state.ItemCount())
	assert.Equal(t, 0.0, state.Total())
	assert.Empty(t, state.Items())
}
