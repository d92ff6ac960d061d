package domain

import "context"

// CartItem is one line in the user's cart. ProductID is unique within
// the cart; the gateway owns quantity-merge semantics on add.
type CartItem struct {
	ProductID    int     `json:"productId"`
	ProductName  string  `json:"productName"`
	SupplierName string  `json:"supplierName,omitempty"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	ImageURL     string  `json:"imageUrl,omitempty"`
}

// LineTotal is the item's contribution to a subtotal.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartSnapshot is the whole client-side cart state. Stores replace it
// atomically on every commit; readers get value copies and never see a
// half-applied mutation.
type CartSnapshot struct {
	Items        []CartItem
	SelectedIDs  map[int]struct{}
	LastRemoved  []CartItem // one-slot undo buffer, overwritten per removal
	ShippingCost float64
	IsLoading    bool
	Err          string
}

// Selected reports whether the product is marked for checkout.
func (s CartSnapshot) Selected(productID int) bool {
	_, ok := s.SelectedIDs[productID]
	return ok
}

// Clone deep-copies the snapshot so callers can hold it without racing
// the store's next commit.
func (s CartSnapshot) Clone() CartSnapshot {
	out := s
	out.Items = append([]CartItem(nil), s.Items...)
	out.LastRemoved = append([]CartItem(nil), s.LastRemoved...)
	out.SelectedIDs = make(map[int]struct{}, len(s.SelectedIDs))
	for id := range s.SelectedIDs {
		out.SelectedIDs[id] = struct{}{}
	}
	return out
}

// CartGateway is the remote system of record for the cart.
type CartGateway interface {
	GetCart(ctx context.Context) ([]CartItem, error)
	// AddOrUpdateItem appends the product or merges quantity server-side
	// and returns the authoritative post-mutation item.
	AddOrUpdateItem(ctx context.Context, productID, quantity int) (*CartItem, error)
	RemoveItem(ctx context.Context, productID int) error
	ClearCart(ctx context.Context) error
}
