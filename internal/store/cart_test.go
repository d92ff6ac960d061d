package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront-client/internal/domain"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

// fakeCartGateway is a scriptable in-memory backend. failRemove and
// failAdd make individual product ids fail, for partial-success tests.
type fakeCartGateway struct {
	mu         sync.Mutex
	catalog    map[int]domain.CartItem // product metadata by id
	serverCart map[int]int             // productID -> quantity
	failGet    bool
	failClear  bool
	failAdd    map[int]bool
	failRemove map[int]bool

	getCalls    int
	addCalls    int
	removeCalls int
	clearCalls  int
}

func newFakeCartGateway(catalog ...domain.CartItem) *fakeCartGateway {
	gw := &fakeCartGateway{
		catalog:    make(map[int]domain.CartItem),
		serverCart: make(map[int]int),
		failAdd:    make(map[int]bool),
		failRemove: make(map[int]bool),
	}
	for _, item := range catalog {
		gw.catalog[item.ProductID] = item
	}
	return gw
}

func (g *fakeCartGateway) GetCart(_ context.Context) ([]domain.CartItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.getCalls++
	if g.failGet {
		return nil, errors.New("boom")
	}
	var items []domain.CartItem
	for id, qty := range g.serverCart {
		item := g.catalog[id]
		item.Quantity = qty
		items = append(items, item)
	}
	return items, nil
}

func (g *fakeCartGateway) AddOrUpdateItem(_ context.Context, productID, quantity int) (*domain.CartItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addCalls++
	if g.failAdd[productID] {
		return nil, errors.New("boom")
	}
	g.serverCart[productID] = quantity
	item := g.catalog[productID]
	item.Quantity = quantity
	return &item, nil
}

func (g *fakeCartGateway) RemoveItem(_ context.Context, productID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeCalls++
	if g.failRemove[productID] {
		return errors.New("boom")
	}
	delete(g.serverCart, productID)
	return nil
}

func (g *fakeCartGateway) ClearCart(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clearCalls++
	if g.failClear {
		return errors.New("boom")
	}
	g.serverCart = make(map[int]int)
	return nil
}

var testCatalog = []domain.CartItem{
	{ProductID: 1, ProductName: "Keyboard", SupplierName: "Acme", Price: 10},
	{ProductID: 2, ProductName: "Mouse", SupplierName: "Acme", Price: 5},
	{ProductID: 3, ProductName: "Monitor", SupplierName: "Globex", Price: 120},
}

func newCartFixture(t *testing.T) (*CartStore, *fakeCartGateway, *recordingNotifier) {
	t.Helper()
	gw := newFakeCartGateway(testCatalog...)
	notifier := &recordingNotifier{}
	s := NewCartStore(gw, CartOptions{Notifier: notifier})
	return s, gw, notifier
}

func itemIDs(items []domain.CartItem) []int {
	ids := make([]int, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func TestCartStore(t *testing.T) {
	ctx := context.Background()

	t.Run("InitializeCart_ReplacesLocalState", func(t *testing.T) {
		s, gw, _ := newCartFixture(t)
		gw.serverCart = map[int]int{1: 2, 2: 1}

		require.NoError(t, s.AddItem(ctx, 3, 1))
		s.ToggleItemSelection(3)
		require.NoError(t, s.RemoveItem(ctx, 3)) // produces an undo buffer

		require.NoError(t, s.InitializeCart(ctx))

		snap := s.Snapshot()
		require.ElementsMatch(t, []int{1, 2}, itemIDs(snap.Items))
		require.Empty(t, snap.SelectedIDs)
		require.Empty(t, snap.LastRemoved)
		require.Empty(t, snap.Err)
		require.False(t, snap.IsLoading)
	})

	t.Run("InitializeCart_FailureKeepsItemsAndSetsError", func(t *testing.T) {
		s, gw, notifier := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 1))
		gw.failGet = true

		require.NoError(t, s.InitializeCart(ctx))

		snap := s.Snapshot()
		require.Equal(t, []int{1}, itemIDs(snap.Items))
		require.Equal(t, "Failed to load cart.", snap.Err)
		require.NotEmpty(t, notifier.failures)
	})

	t.Run("AddItem_NeverDuplicatesProductIDs", func(t *testing.T) {
		s, _, _ := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 1))
		require.NoError(t, s.AddItem(ctx, 1, 3))
		require.NoError(t, s.AddItem(ctx, 2, 2))

		snap := s.Snapshot()
		require.Len(t, snap.Items, 2)
		require.Equal(t, 3, snap.Items[0].Quantity) // gateway-confirmed merge result
	})

	t.Run("AddItem_FailureIsAtomic", func(t *testing.T) {
		s, gw, _ := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 1))
		gw.failAdd[2] = true

		require.NoError(t, s.AddItem(ctx, 2, 1))

		snap := s.Snapshot()
		require.Equal(t, []int{1}, itemIDs(snap.Items))
		require.NotEmpty(t, snap.Err)

		// next successful action clears the error
		gw.failAdd[2] = false
		require.NoError(t, s.AddItem(ctx, 2, 1))
		require.Empty(t, s.Snapshot().Err)
	})

	t.Run("RemoveItem_UnknownIDSkipsGateway", func(t *testing.T) {
		s, gw, _ := newCartFixture(t)
		require.NoError(t, s.RemoveItem(ctx, 99))
		require.Zero(t, gw.removeCalls)
	})

	t.Run("RemoveItem_MaintainsSelectionSubsetAndUndoBuffer", func(t *testing.T) {
		s, _, _ := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 2))
		require.NoError(t, s.AddItem(ctx, 2, 1))
		s.ToggleItemSelection(1)
		s.ToggleItemSelection(2)

		require.NoError(t, s.RemoveItem(ctx, 1))

		snap := s.Snapshot()
		require.Equal(t, []int{2}, itemIDs(snap.Items))
		require.False(t, snap.Selected(1))
		require.True(t, snap.Selected(2))
		require.Len(t, snap.LastRemoved, 1)
		require.Equal(t, 1, snap.LastRemoved[0].ProductID)
		require.Equal(t, 2, snap.LastRemoved[0].Quantity)
	})

	t.Run("UpdateQuantity_BelowOneMeansRemoval", func(t *testing.T) {
		s, gw, _ := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 2))

		require.NoError(t, s.UpdateQuantity(ctx, 1, 0))

		require.Empty(t, s.Snapshot().Items)
		require.Equal(t, 1, gw.removeCalls)
	})

	t.Run("UpdateQuantity_SameQuantitySkipsNetwork", func(t *testing.T) {
		s, gw, _ := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 2))
		before := gw.addCalls

		require.NoError(t, s.UpdateQuantity(ctx, 1, 2))

		require.Equal(t, before, gw.addCalls)
		require.Zero(t, gw.removeCalls)
		require.Equal(t, 2, s.Snapshot().Items[0].Quantity)
	})

	t.Run("UpdateQuantity_UnknownIDIsNoOp", func(t *testing.T) {
		s, gw, _ := newCartFixture(t)
		require.NoError(t, s.UpdateQuantity(ctx, 42, 5))
		require.Zero(t, gw.addCalls)
	})

	t.Run("ClearCart_EmptySkipsGateway", func(t *testing.T) {
		s, gw, _ := newCartFixture(t)
		require.NoError(t, s.ClearCart(ctx))
		require.Zero(t, gw.clearCalls)
	})

	t.Run("ClearCart_BuffersAllItemsForUndo", func(t *testing.T) {
		s, _, _ := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 2))
		require.NoError(t, s.AddItem(ctx, 2, 1))
		s.SelectAllItems(true)

		require.NoError(t, s.ClearCart(ctx))

		snap := s.Snapshot()
		require.Empty(t, snap.Items)
		require.Empty(t, snap.SelectedIDs)
		require.ElementsMatch(t, []int{1, 2}, itemIDs(snap.LastRemoved))

		require.NoError(t, s.UndoRemove(ctx))

		snap = s.Snapshot()
		require.ElementsMatch(t, []int{1, 2}, itemIDs(snap.Items))
		require.Empty(t, snap.LastRemoved)
	})

	t.Run("UndoRemove_RestoresOriginalQuantityOnce", func(t *testing.T) {
		s, gw, _ := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 3))
		require.NoError(t, s.RemoveItem(ctx, 1))

		require.NoError(t, s.UndoRemove(ctx))

		snap := s.Snapshot()
		require.Equal(t, []int{1}, itemIDs(snap.Items))
		require.Equal(t, 3, snap.Items[0].Quantity)
		require.Empty(t, snap.LastRemoved)

		// second undo is a no-op with no network traffic
		before := gw.addCalls
		require.NoError(t, s.UndoRemove(ctx))
		require.Equal(t, before, gw.addCalls)
	})

	t.Run("RemoveSelectedItems_EmptySelectionRefuses", func(t *testing.T) {
		s, gw, notifier := newCartFixture(t)
		err := s.RemoveSelectedItems(ctx)
		require.ErrorIs(t, err, domain.ErrNothingSelected)
		require.Zero(t, gw.removeCalls)
		require.NotEmpty(t, notifier.failures)
	})

	t.Run("RemoveSelectedItems_PartialFailureCommitsSuccesses", func(t *testing.T) {
		s, gw, _ := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 1))
		require.NoError(t, s.AddItem(ctx, 2, 1))
		require.NoError(t, s.AddItem(ctx, 3, 1))
		s.SelectAllItems(true)
		gw.failRemove[2] = true

		require.NoError(t, s.RemoveSelectedItems(ctx))

		snap := s.Snapshot()
		require.Equal(t, []int{2}, itemIDs(snap.Items))
		require.True(t, snap.Selected(2)) // failed id stays selected
		require.Equal(t, "Some items could not be removed.", snap.Err)
		require.ElementsMatch(t, []int{1, 3}, itemIDs(snap.LastRemoved))
	})

	t.Run("SelectedTotalPrice_TracksSelection", func(t *testing.T) {
		s, _, _ := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 2)) // 10 * 2
		require.NoError(t, s.AddItem(ctx, 2, 1)) // 5 * 1
		s.SelectAllItems(true)
		require.InDelta(t, 25, s.SelectedTotalPrice(), 1e-9)

		s.ToggleItemSelection(2)
		require.InDelta(t, 20, s.SelectedTotalPrice(), 1e-9)
	})

	t.Run("Counts", func(t *testing.T) {
		s, _, _ := newCartFixture(t)
		require.NoError(t, s.AddItem(ctx, 1, 2))
		require.NoError(t, s.AddItem(ctx, 2, 3))
		require.Equal(t, 2, s.ItemCount())
		require.Equal(t, 5, s.TotalQuantity())
	})

	t.Run("ToggleItemSelection_UnknownIDIsIgnored", func(t *testing.T) {
		s, _, _ := newCartFixture(t)
		s.ToggleItemSelection(99)
		require.Empty(t, s.Snapshot().SelectedIDs)
	})

	t.Run("Subscribe_SeesCommittedSnapshots", func(t *testing.T) {
		s, _, _ := newCartFixture(t)
		var last domain.CartSnapshot
		s.Subscribe(func(snap domain.CartSnapshot) { last = snap })

		require.NoError(t, s.AddItem(ctx, 1, 1))
		require.Equal(t, []int{1}, itemIDs(last.Items))
	})
}

func TestCartCheckout(t *testing.T) {
	ctx := context.Background()

	// price 50 per unit lets subtotals land exactly on the threshold
	gw := newFakeCartGateway(
		domain.CartItem{ProductID: 1, ProductName: "Gift Card", Price: 50},
		domain.CartItem{ProductID: 2, ProductName: "Sticker", Price: 0.01},
	)

	newStore := func(t *testing.T) *CartStore {
		t.Helper()
		return NewCartStore(gw, CartOptions{
			ShippingCost:          49.99,
			FreeShippingThreshold: 50,
		})
	}

	t.Run("ExactThresholdStillPaysShipping", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddItem(ctx, 1, 1))
		s.SelectAllItems(true)

		got := s.Checkout()
		require.InDelta(t, 50, got.Subtotal, 1e-9)
		require.InDelta(t, 49.99, got.Shipping, 1e-9)
		require.InDelta(t, 99.99, got.Total, 1e-9)
	})

	t.Run("StrictlyAboveThresholdWaivesShipping", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddItem(ctx, 1, 1))
		require.NoError(t, s.AddItem(ctx, 2, 1))
		s.SelectAllItems(true)

		got := s.Checkout()
		require.InDelta(t, 50.01, got.Subtotal, 1e-9)
		require.Zero(t, got.Shipping)
	})

	t.Run("EmptySelectionNeverAddsShipping", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddItem(ctx, 1, 1))

		got := s.Checkout()
		require.Zero(t, got.Subtotal)
		require.Zero(t, got.Shipping)
		require.Zero(t, got.Total)
	})
}
