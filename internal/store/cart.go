package store

import (
	"context"
	"fmt"
	"sync"

	"storefront-client/internal/domain"
	"storefront-client/internal/infrastructure/imagecache"
	"storefront-client/pkg/logger"
	"storefront-client/pkg/notify"
)

// CartStore mirrors the user's server-side cart. Every mutation talks
// to the gateway first and commits locally only on success; single
// mutations are failure-atomic, bulk ones are all-settled. A one-slot
// buffer remembers the most recent removal for undo.
//
// Commits replace the whole snapshot under the mutex, so readers and
// listeners never observe a half-applied mutation. Overlapping actions
// are not queued or cancelled; the last commit wins.
type CartStore struct {
	mu        sync.Mutex
	gw        domain.CartGateway
	notifier  notify.Notifier
	images    *imagecache.Resolver
	threshold float64
	listeners []func(domain.CartSnapshot)
	snap      domain.CartSnapshot
}

// CartOptions tunes a CartStore. Zero values fall back to the domain
// defaults; a nil Notifier discards notifications.
type CartOptions struct {
	ShippingCost          float64
	FreeShippingThreshold float64
	Notifier              notify.Notifier
	Images                *imagecache.Resolver
}

func NewCartStore(gw domain.CartGateway, opts CartOptions) *CartStore {
	if opts.ShippingCost == 0 {
		opts.ShippingCost = domain.DefaultShippingCost
	}
	if opts.FreeShippingThreshold == 0 {
		opts.FreeShippingThreshold = domain.FreeShippingThreshold
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	return &CartStore{
		gw:        gw,
		notifier:  opts.Notifier,
		images:    opts.Images,
		threshold: opts.FreeShippingThreshold,
		snap: domain.CartSnapshot{
			SelectedIDs:  make(map[int]struct{}),
			ShippingCost: opts.ShippingCost,
		},
	}
}

// Snapshot returns a deep copy of the current state.
func (s *CartStore) Snapshot() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Subscribe registers fn to run after every commit with the new state.
func (s *CartStore) Subscribe(fn func(domain.CartSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// commit applies mutate to the snapshot and notifies listeners.
func (s *CartStore) commit(mutate func(snap *domain.CartSnapshot)) {
	s.mu.Lock()
	mutate(&s.snap)
	next := s.snap.Clone()
	listeners := append(([]func(domain.CartSnapshot))(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

func (s *CartStore) setLoading(v bool) {
	s.commit(func(snap *domain.CartSnapshot) { snap.IsLoading = v })
}

// fail records and surfaces a gateway failure. State other than Err is
// left untouched.
func (s *CartStore) fail(action, fallback string, err error) {
	msg := domain.ErrorMessage(err, fallback)
	s.commit(func(snap *domain.CartSnapshot) { snap.Err = msg })
	s.notifier.Error(msg)
	logger.StoreAction("cart", action, err)
}

func (s *CartStore) fillImage(item *domain.CartItem) {
	if item.ImageURL == "" && s.images != nil {
		item.ImageURL = s.images.Resolve(item.ProductID)
	}
}

// findItem looks an item up in the current snapshot.
func (s *CartStore) findItem(productID int) (domain.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.snap.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return domain.CartItem{}, false
}

// patchItem replaces the matching item in place or appends.
func patchItem(items []domain.CartItem, item domain.CartItem) []domain.CartItem {
	for i, it := range items {
		if it.ProductID == item.ProductID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

// InitializeCart fetches the full cart and replaces local state. Always
// a full replace, never a merge; safe to call repeatedly.
func (s *CartStore) InitializeCart(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	items, err := s.gw.GetCart(ctx)
	if err != nil {
		s.fail("InitializeCart", "Failed to load cart.", err)
		return nil
	}
	for i := range items {
		s.fillImage(&items[i])
	}

	s.commit(func(snap *domain.CartSnapshot) {
		snap.Items = items
		snap.SelectedIDs = make(map[int]struct{})
		snap.LastRemoved = nil
		snap.Err = ""
	})
	logger.StoreAction("cart", "InitializeCart", nil)
	return nil
}

// AddItem adds the product or lets the gateway merge quantities; the
// returned item is adopted as-is. Nothing local changes on failure.
func (s *CartStore) AddItem(ctx context.Context, productID, quantity int) error {
	s.setLoading(true)
	defer s.setLoading(false)

	item, err := s.gw.AddOrUpdateItem(ctx, productID, quantity)
	if err != nil {
		s.fail("AddItem", "Could not add item to cart.", err)
		return nil
	}
	s.fillImage(item)

	s.commit(func(snap *domain.CartSnapshot) {
		snap.Items = patchItem(snap.Items, *item)
		snap.Err = ""
	})
	s.notifier.Success(fmt.Sprintf("%s added to cart.", item.ProductName))
	return nil
}

// RemoveItem deletes one item. Unknown ids are a silent no-op and never
// reach the gateway.
func (s *CartStore) RemoveItem(ctx context.Context, productID int) error {
	item, ok := s.findItem(productID)
	if !ok {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.gw.RemoveItem(ctx, productID); err != nil {
		s.fail("RemoveItem", "Could not remove item from cart.", err)
		return nil
	}

	s.commit(func(snap *domain.CartSnapshot) {
		snap.Items = removeByID(snap.Items, productID)
		delete(snap.SelectedIDs, productID)
		snap.LastRemoved = []domain.CartItem{item}
		snap.Err = ""
	})
	s.notifier.Success(fmt.Sprintf("%s removed from cart.", item.ProductName))
	return nil
}

// UpdateQuantity sets a new quantity. Quantities below 1 are defined as
// removal; unknown ids and unchanged quantities are no-ops that skip
// the network entirely.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, productID)
	}

	item, ok := s.findItem(productID)
	if !ok {
		return nil
	}
	if item.Quantity == quantity {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.gw.AddOrUpdateItem(ctx, productID, quantity)
	if err != nil {
		s.fail("UpdateQuantity", "Could not update cart.", err)
		return nil
	}
	s.fillImage(updated)

	s.commit(func(snap *domain.CartSnapshot) {
		snap.Items = patchItem(snap.Items, *updated)
		snap.Err = ""
	})
	s.notifier.Success(fmt.Sprintf("%s quantity updated.", updated.ProductName))
	return nil
}

// ClearCart empties the cart, buffering the pre-clear items so the
// whole clear can be undone. An already-empty cart skips the gateway.
func (s *CartStore) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	empty := len(s.snap.Items) == 0
	s.mu.Unlock()
	if empty {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.gw.ClearCart(ctx); err != nil {
		s.fail("ClearCart", "Could not clear cart.", err)
		return nil
	}

	s.commit(func(snap *domain.CartSnapshot) {
		snap.LastRemoved = snap.Items
		snap.Items = nil
		snap.SelectedIDs = make(map[int]struct{})
		snap.Err = ""
	})
	s.notifier.Success("Cart cleared.")
	return nil
}

// RemoveSelectedItems deletes every selected item with one concurrent
// call per id, all-settled: successful deletions commit even when
// others fail. Failed ids stay in the cart and stay selected.
func (s *CartStore) RemoveSelectedItems(ctx context.Context) error {
	s.mu.Lock()
	targets := make([]domain.CartItem, 0, len(s.snap.SelectedIDs))
	for _, it := range s.snap.Items {
		if _, ok := s.snap.SelectedIDs[it.ProductID]; ok {
			targets = append(targets, it)
		}
	}
	s.mu.Unlock()

	if len(targets) == 0 {
		s.notifier.Error("No items selected to remove.")
		return domain.ErrNothingSelected
	}

	s.setLoading(true)
	defer s.setLoading(false)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		removed []domain.CartItem
		failed  int
	)
	for _, it := range targets {
		wg.Add(1)
		go func(item domain.CartItem) {
			defer wg.Done()
			err := s.gw.RemoveItem(ctx, item.ProductID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				logger.StoreAction("cart", "RemoveSelectedItems", err)
				return
			}
			removed = append(removed, item)
		}(it)
	}
	wg.Wait()

	s.commit(func(snap *domain.CartSnapshot) {
		for _, it := range removed {
			snap.Items = removeByID(snap.Items, it.ProductID)
			delete(snap.SelectedIDs, it.ProductID)
		}
		if len(removed) > 0 {
			snap.LastRemoved = removed
		}
		if failed > 0 {
			snap.Err = "Some items could not be removed."
		} else {
			snap.Err = ""
		}
	})

	if len(removed) > 0 {
		s.notifier.Success(fmt.Sprintf("%d item(s) removed from cart.", len(removed)))
	}
	if failed > 0 {
		s.notifier.Error("Some items could not be removed.")
	}
	return nil
}

// UndoRemove re-adds the buffered removal. The buffer is cleared up
// front so a second undo is a no-op even while restores are in flight.
// Restores are all-settled, one gateway call per item.
func (s *CartStore) UndoRemove(ctx context.Context) error {
	s.mu.Lock()
	buffered := s.snap.LastRemoved
	s.snap.LastRemoved = nil
	next := s.snap.Clone()
	listeners := append(([]func(domain.CartSnapshot))(nil), s.listeners...)
	s.mu.Unlock()

	if len(buffered) == 0 {
		return nil
	}
	for _, fn := range listeners {
		fn(next)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		restored []domain.CartItem
		failed   int
	)
	for _, it := range buffered {
		wg.Add(1)
		go func(item domain.CartItem) {
			defer wg.Done()
			got, err := s.gw.AddOrUpdateItem(ctx, item.ProductID, item.Quantity)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.notifier.Error(fmt.Sprintf("Could not restore %s.", item.ProductName))
				logger.StoreAction("cart", "UndoRemove", err)
				return
			}
			restored = append(restored, *got)
		}(it)
	}
	wg.Wait()

	s.commit(func(snap *domain.CartSnapshot) {
		for _, it := range restored {
			snap.Items = patchItem(snap.Items, it)
		}
		if failed > 0 {
			snap.Err = "Some items could not be restored."
		} else {
			snap.Err = ""
		}
	})

	if len(restored) > 0 {
		s.notifier.Success(fmt.Sprintf("%d item(s) restored.", len(restored)))
	}
	return nil
}

// ToggleItemSelection flips checkout selection for an item already in
// the cart. Pure local state.
func (s *CartStore) ToggleItemSelection(productID int) {
	if _, ok := s.findItem(productID); !ok {
		return
	}
	s.commit(func(snap *domain.CartSnapshot) {
		if _, ok := snap.SelectedIDs[productID]; ok {
			delete(snap.SelectedIDs, productID)
		} else {
			snap.SelectedIDs[productID] = struct{}{}
		}
	})
}

// SelectAllItems selects or deselects every item. Pure local state.
func (s *CartStore) SelectAllItems(selected bool) {
	s.commit(func(snap *domain.CartSnapshot) {
		snap.SelectedIDs = make(map[int]struct{})
		if selected {
			for _, it := range snap.Items {
				snap.SelectedIDs[it.ProductID] = struct{}{}
			}
		}
	})
}

// --- Derived accessors. Recomputed on every call, never cached. ---

// SelectedTotalPrice sums price*quantity over the selected items.
func (s *CartStore) SelectedTotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.snap.Items {
		if _, ok := s.snap.SelectedIDs[it.ProductID]; ok {
			total += it.LineTotal()
		}
	}
	return total
}

// ItemCount is the number of distinct line items, not total units.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snap.Items)
}

// TotalQuantity sums quantities across all items.
func (s *CartStore) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int
	for _, it := range s.snap.Items {
		total += it.Quantity
	}
	return total
}

// CheckoutSummary is the selected subtotal plus the shipping decision.
type CheckoutSummary struct {
	Subtotal float64
	Shipping float64
	Total    float64
}

// Checkout applies the shipping policy: the flat fee is added only when
// the selected subtotal is positive and does not strictly exceed the
// free-shipping threshold. An empty selection never pays shipping.
func (s *CartStore) Checkout() CheckoutSummary {
	subtotal := s.SelectedTotalPrice()

	s.mu.Lock()
	shippingCost := s.snap.ShippingCost
	s.mu.Unlock()

	var shipping float64
	if subtotal > 0 && subtotal <= s.threshold {
		shipping = shippingCost
	}
	return CheckoutSummary{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}

func removeByID(items []domain.CartItem, productID int) []domain.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}
