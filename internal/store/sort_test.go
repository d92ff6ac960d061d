package store

import (
	"testing"

	"storefront-client/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestSortFavorites(t *testing.T) {
	col := newNameCollator()

	input := func() []domain.FavoriteProduct {
		return []domain.FavoriteProduct{
			{ProductID: 1, Name: "anvil", Price: 30, AddedDate: day(2)},
			{ProductID: 2, Name: "Rocket Skates", Price: 120, AddedDate: day(1)},
			{ProductID: 3, Name: "bird seed", Price: 5, AddedDate: day(2)},
			{ProductID: 4, Name: "Anvil", Price: 30, AddedDate: day(3)},
		}
	}

	cases := []struct {
		sortType string
		want     []int
	}{
		{domain.SortPriceAsc, []int{3, 1, 4, 2}},  // stable: 1 before 4 at equal price
		{domain.SortPriceDesc, []int{2, 1, 4, 3}}, // stable at equal price
		{domain.SortNameAsc, []int{1, 4, 3, 2}},   // case-insensitive, stable for anvil/Anvil
		{domain.SortNameDesc, []int{2, 3, 1, 4}},
		{domain.SortDateAsc, []int{2, 1, 3, 4}},  // equal dates tie-break ascending id
		{domain.SortDateDesc, []int{4, 3, 1, 2}}, // equal dates tie-break descending id
	}

	for _, tc := range cases {
		t.Run(tc.sortType, func(t *testing.T) {
			products := input()
			sortFavorites(products, tc.sortType, col)
			require.Equal(t, tc.want, favoriteIDs(products))

			// same input, same order: the sort is deterministic
			again := input()
			sortFavorites(again, tc.sortType, col)
			require.Equal(t, tc.want, favoriteIDs(again))
		})
	}

	t.Run("UnknownSortTypeFallsBackToDateDesc", func(t *testing.T) {
		products := input()
		sortFavorites(products, "bogus", col)
		require.Equal(t, []int{4, 3, 1, 2}, favoriteIDs(products))
	})
}
