package store

import (
	"sort"

	"storefront-client/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func newNameCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// sortFavorites orders products in place per sortType. The sort is
// stable; the default order is added date descending with ties broken
// by descending product id. The collator is not safe for concurrent
// use, so callers sort under their own lock.
func sortFavorites(products []domain.FavoriteProduct, sortType string, col *collate.Collator) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch sortType {
		case domain.SortPriceAsc:
			return a.Price < b.Price
		case domain.SortPriceDesc:
			return b.Price < a.Price
		case domain.SortNameAsc:
			return col.CompareString(a.Name, b.Name) < 0
		case domain.SortNameDesc:
			return col.CompareString(b.Name, a.Name) < 0
		case domain.SortDateAsc:
			if !a.AddedDate.Equal(b.AddedDate) {
				return a.AddedDate.Before(b.AddedDate)
			}
			return a.ProductID < b.ProductID
		default: // date-desc
			if !a.AddedDate.Equal(b.AddedDate) {
				return b.AddedDate.Before(a.AddedDate)
			}
			return b.ProductID < a.ProductID
		}
	})
}
