package domain

import (
	"context"
	"time"
)

// FavoriteProduct is one favorited product. ListID nil means the entry
// belongs to the user's unnamed main favorites; otherwise it references
// a FavoriteList. ID carries the same value as ProductID, kept twice
// for interop with consumers keyed on either.
type FavoriteProduct struct {
	ID           int       `json:"id"`
	ProductID    int       `json:"productId"`
	Name         string    `json:"name"`
	SupplierName string    `json:"supplierName,omitempty"`
	Price        float64   `json:"price"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	AddedDate    time.Time `json:"addedDate"`
	InStock      bool      `json:"inStock"`
	ListID       *int      `json:"listId,omitempty"`
}

// FavoriteList is a named, user-created list. ProductIDs is membership
// only; display metadata comes from the main favorites cache.
type FavoriteList struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	IsPrivate  bool   `json:"isPrivate"`
	ProductIDs []int  `json:"productIds"`
}

// Contains reports list membership for the product.
func (l FavoriteList) Contains(productID int) bool {
	for _, id := range l.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// FavoritesSnapshot is the whole client-side favorites state.
type FavoritesSnapshot struct {
	Products            []FavoriteProduct
	Lists               []FavoriteList
	SelectedProductIDs  map[int]struct{}
	CurrentListProducts []FavoriteProduct
	SortType            string
	IsLoading           bool
	IsLoadingLists      bool
	Err                 string
}

// Clone deep-copies the snapshot.
func (s FavoritesSnapshot) Clone() FavoritesSnapshot {
	out := s
	out.Products = append([]FavoriteProduct(nil), s.Products...)
	out.CurrentListProducts = append([]FavoriteProduct(nil), s.CurrentListProducts...)
	out.Lists = make([]FavoriteList, len(s.Lists))
	for i, l := range s.Lists {
		l.ProductIDs = append([]int(nil), l.ProductIDs...)
		out.Lists[i] = l
	}
	out.SelectedProductIDs = make(map[int]struct{}, len(s.SelectedProductIDs))
	for id := range s.SelectedProductIDs {
		out.SelectedProductIDs[id] = struct{}{}
	}
	return out
}

// FavoritesGateway is the remote system of record for favorites and
// named favorite lists.
type FavoritesGateway interface {
	GetFavorites(ctx context.Context) ([]FavoriteProduct, error)
	AddFavorite(ctx context.Context, productID int) (*FavoriteProduct, error)
	RemoveFavorite(ctx context.Context, productID int) error

	GetFavoriteLists(ctx context.Context, userID int) ([]FavoriteList, error)
	CreateFavoriteList(ctx context.Context, userID int, name string, isPrivate bool) (*FavoriteList, error)
	DeleteFavoriteList(ctx context.Context, listID int) error
	AddProductToList(ctx context.Context, listID, productID int) error
	RemoveProductFromList(ctx context.Context, listID, productID int) error
	GetListProducts(ctx context.Context, listID int) ([]FavoriteProduct, error)
}
