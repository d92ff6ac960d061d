package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront-client/internal/domain"
	"storefront-client/internal/infrastructure/imagecache"
	"storefront-client/pkg/logger"
	"storefront-client/pkg/notify"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
)

// FavoritesStore mirrors the user's main favorites plus their named
// favorite lists. Every insert re-sorts the full collection per the
// active sort order. Bulk removal is all-or-nothing: if any delete
// fails, nothing local changes.
type FavoritesStore struct {
	mu        sync.Mutex
	gw        domain.FavoritesGateway
	notifier  notify.Notifier
	images    *imagecache.Resolver
	collator  *collate.Collator
	listeners []func(domain.FavoritesSnapshot)
	snap      domain.FavoritesSnapshot
}

// FavoritesOptions tunes a FavoritesStore.
type FavoritesOptions struct {
	DefaultSortType string
	Notifier        notify.Notifier
	Images          *imagecache.Resolver
}

func NewFavoritesStore(gw domain.FavoritesGateway, opts FavoritesOptions) *FavoritesStore {
	if opts.DefaultSortType == "" {
		opts.DefaultSortType = domain.SortDateDesc
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	return &FavoritesStore{
		gw:       gw,
		notifier: opts.Notifier,
		images:   opts.Images,
		collator: newNameCollator(),
		snap: domain.FavoritesSnapshot{
			SelectedProductIDs: make(map[int]struct{}),
			SortType:           opts.DefaultSortType,
		},
	}
}

// Snapshot returns a deep copy of the current state.
func (s *FavoritesStore) Snapshot() domain.FavoritesSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Subscribe registers fn to run after every commit with the new state.
func (s *FavoritesStore) Subscribe(fn func(domain.FavoritesSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *FavoritesStore) commit(mutate func(snap *domain.FavoritesSnapshot)) {
	s.mu.Lock()
	mutate(&s.snap)
	next := s.snap.Clone()
	listeners := append(([]func(domain.FavoritesSnapshot))(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

func (s *FavoritesStore) setLoading(v bool) {
	s.commit(func(snap *domain.FavoritesSnapshot) { snap.IsLoading = v })
}

func (s *FavoritesStore) setLoadingLists(v bool) {
	s.commit(func(snap *domain.FavoritesSnapshot) { snap.IsLoadingLists = v })
}

func (s *FavoritesStore) fail(action, fallback string, err error) {
	msg := domain.ErrorMessage(err, fallback)
	s.commit(func(snap *domain.FavoritesSnapshot) { snap.Err = msg })
	s.notifier.Error(msg)
	logger.StoreAction("favorites", action, err)
}

func (s *FavoritesStore) fillImage(p *domain.FavoriteProduct) {
	if p.ImageURL == "" && s.images != nil {
		p.ImageURL = s.images.Resolve(p.ProductID)
	}
}

// findMain looks up a product in the main favorites (no list
// association).
func (s *FavoritesStore) findMain(productID int) (domain.FavoriteProduct, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.snap.Products {
		if p.ProductID == productID && p.ListID == nil {
			return p, true
		}
	}
	return domain.FavoriteProduct{}, false
}

// IsFavorite reports main-favorites membership, or membership in the
// given list when a listID is supplied.
func (s *FavoritesStore) IsFavorite(productID int, listID ...int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(listID) > 0 {
		for _, l := range s.snap.Lists {
			if l.ID == listID[0] {
				return l.Contains(productID)
			}
		}
		return false
	}
	for _, p := range s.snap.Products {
		if p.ProductID == productID && p.ListID == nil {
			return true
		}
	}
	return false
}

// InitializeFavoritesAndLists fetches the main favorites and the named
// lists concurrently and replaces both. A failure in either fetch
// aborts the whole initialization with one combined error.
func (s *FavoritesStore) InitializeFavoritesAndLists(ctx context.Context, userID int) error {
	s.setLoading(true)
	s.setLoadingLists(true)
	defer s.setLoading(false)
	defer s.setLoadingLists(false)

	var (
		products []domain.FavoriteProduct
		lists    []domain.FavoriteList
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		products, err = s.gw.GetFavorites(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		lists, err = s.gw.GetFavoriteLists(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail("InitializeFavoritesAndLists", "Failed to load favorites.", err)
		return nil
	}

	for i := range products {
		s.fillImage(&products[i])
	}

	s.commit(func(snap *domain.FavoritesSnapshot) {
		sortFavorites(products, snap.SortType, s.collator)
		snap.Products = products
		snap.Lists = lists
		snap.SelectedProductIDs = make(map[int]struct{})
		snap.Err = ""
	})
	logger.StoreAction("favorites", "InitializeFavoritesAndLists", nil)
	return nil
}

// AddProduct favorites a product. Duplicates are refused locally before
// any network call; a successful insert triggers a full stable re-sort
// per the active sort order.
func (s *FavoritesStore) AddProduct(ctx context.Context, productID int) error {
	if _, ok := s.findMain(productID); ok {
		s.notifier.Error("Product is already in favorites.")
		return domain.ErrAlreadyFavorite
	}

	s.setLoading(true)
	defer s.setLoading(false)

	product, err := s.gw.AddFavorite(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.fail("AddProduct", "This product is already in your favorites.", domain.ErrConflict)
			return nil
		}
		s.fail("AddProduct", "Could not add product to favorites.", err)
		return nil
	}
	s.fillImage(product)

	s.commit(func(snap *domain.FavoritesSnapshot) {
		snap.Products = append(snap.Products, *product)
		sortFavorites(snap.Products, snap.SortType, s.collator)
		snap.Err = ""
	})
	s.notifier.Success(fmt.Sprintf("%s added to favorites!", product.Name))
	return nil
}

// RemoveProduct unfavorites a product from the main favorites. Unknown
// products are refused locally.
func (s *FavoritesStore) RemoveProduct(ctx context.Context, productID int) error {
	product, ok := s.findMain(productID)
	if !ok {
		s.notifier.Error("Product is not in favorites.")
		return domain.ErrNotFavorite
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.gw.RemoveFavorite(ctx, productID); err != nil {
		s.fail("RemoveProduct", "Could not remove product from favorites.", err)
		return nil
	}

	s.commit(func(snap *domain.FavoritesSnapshot) {
		snap.Products = removeMain(snap.Products, productID)
		delete(snap.SelectedProductIDs, productID)
		snap.Err = ""
	})
	s.notifier.Success(fmt.Sprintf("%s removed from favorites.", product.Name))
	return nil
}

// CreateList creates a named favorite list and returns it so the
// caller can act on it immediately, e.g. add a product to it.
func (s *FavoritesStore) CreateList(ctx context.Context, userID int, name string, isPrivate bool) (*domain.FavoriteList, error) {
	s.setLoadingLists(true)
	defer s.setLoadingLists(false)

	list, err := s.gw.CreateFavoriteList(ctx, userID, name, isPrivate)
	if err != nil {
		s.fail("CreateList", "Could not create favorite list.", err)
		return nil, err
	}

	s.commit(func(snap *domain.FavoritesSnapshot) {
		snap.Lists = append(snap.Lists, *list)
		snap.Err = ""
	})
	s.notifier.Success(fmt.Sprintf("List %q created.", list.Name))
	return list, nil
}

// AddProductToList adds a favorited product to a named list. Both the
// list and the product's favorite record must already exist locally.
// An existing membership is a silent no-op.
func (s *FavoritesStore) AddProductToList(ctx context.Context, productID, listID int) error {
	s.mu.Lock()
	var target *domain.FavoriteList
	for i := range s.snap.Lists {
		if s.snap.Lists[i].ID == listID {
			target = &s.snap.Lists[i]
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		s.notifier.Error("Favorite list not found.")
		return domain.ErrListNotFound
	}
	if target.Contains(productID) {
		s.mu.Unlock()
		return nil
	}
	listName := target.Name
	s.mu.Unlock()

	if _, ok := s.findMain(productID); !ok {
		s.notifier.Error("Product is not in favorites.")
		return domain.ErrNotFavorite
	}

	s.setLoadingLists(true)
	defer s.setLoadingLists(false)

	if err := s.gw.AddProductToList(ctx, listID, productID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.fail("AddProductToList", "This product is already in this list.", domain.ErrConflict)
			return nil
		}
		s.fail("AddProductToList", "Could not add product to list.", err)
		return nil
	}

	s.commit(func(snap *domain.FavoritesSnapshot) {
		for i := range snap.Lists {
			if snap.Lists[i].ID == listID && !snap.Lists[i].Contains(productID) {
				snap.Lists[i].ProductIDs = append(snap.Lists[i].ProductIDs, productID)
			}
		}
		snap.Err = ""
	})
	s.notifier.Success(fmt.Sprintf("Added to %s.", listName))
	return nil
}

// RemoveProductFromList removes a product's membership in one list.
// Main favorites are untouched.
func (s *FavoritesStore) RemoveProductFromList(ctx context.Context, productID, listID int) error {
	s.setLoadingLists(true)
	defer s.setLoadingLists(false)

	if err := s.gw.RemoveProductFromList(ctx, listID, productID); err != nil {
		s.fail("RemoveProductFromList", "Could not remove product from list.", err)
		return nil
	}

	s.commit(func(snap *domain.FavoritesSnapshot) {
		for i := range snap.Lists {
			if snap.Lists[i].ID == listID {
				snap.Lists[i].ProductIDs = removeID(snap.Lists[i].ProductIDs, productID)
			}
		}
		snap.Err = ""
	})
	s.notifier.Success("Product removed from list.")
	return nil
}

// DeleteList deletes a named list. Its products stay in the main
// favorites; deletion never cascades.
func (s *FavoritesStore) DeleteList(ctx context.Context, listID int) error {
	s.setLoadingLists(true)
	defer s.setLoadingLists(false)

	if err := s.gw.DeleteFavoriteList(ctx, listID); err != nil {
		s.fail("DeleteList", "Could not delete favorite list.", err)
		return nil
	}

	s.commit(func(snap *domain.FavoritesSnapshot) {
		out := snap.Lists[:0]
		for _, l := range snap.Lists {
			if l.ID != listID {
				out = append(out, l)
			}
		}
		snap.Lists = out
		snap.Err = ""
	})
	s.notifier.Success("List deleted.")
	return nil
}

// RemoveSelectedProducts deletes every selected favorite, one
// concurrent call per id behind a single combined wait. All-or-nothing:
// if any call fails, no local removal happens at all.
func (s *FavoritesStore) RemoveSelectedProducts(ctx context.Context) error {
	s.mu.Lock()
	ids := make([]int, 0, len(s.snap.SelectedProductIDs))
	for id := range s.snap.SelectedProductIDs {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	if len(ids) == 0 {
		s.notifier.Error("No products selected to remove.")
		return domain.ErrNothingSelected
	}

	s.setLoading(true)
	defer s.setLoading(false)

	g := new(errgroup.Group)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return s.gw.RemoveFavorite(ctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		s.fail("RemoveSelectedProducts", "Could not remove selected products.", err)
		return nil
	}

	s.commit(func(snap *domain.FavoritesSnapshot) {
		for _, id := range ids {
			snap.Products = removeMain(snap.Products, id)
			for i := range snap.Lists {
				snap.Lists[i].ProductIDs = removeID(snap.Lists[i].ProductIDs, id)
			}
		}
		snap.SelectedProductIDs = make(map[int]struct{})
		snap.Err = ""
	})
	s.notifier.Success(fmt.Sprintf("%d product(s) removed from favorites.", len(ids)))
	return nil
}

// FetchListProducts loads the products of one list into the separate
// viewing projection; the main favorites collection is not touched.
func (s *FavoritesStore) FetchListProducts(ctx context.Context, listID int) error {
	s.setLoading(true)
	defer s.setLoading(false)

	products, err := s.gw.GetListProducts(ctx, listID)
	if err != nil {
		s.fail("FetchListProducts", "Could not load list products.", err)
		return nil
	}
	for i := range products {
		s.fillImage(&products[i])
	}

	s.commit(func(snap *domain.FavoritesSnapshot) {
		snap.CurrentListProducts = products
		snap.Err = ""
	})
	return nil
}

// SetSortType sets the active sort order and re-sorts immediately.
func (s *FavoritesStore) SetSortType(sortType string) {
	s.commit(func(snap *domain.FavoritesSnapshot) {
		snap.SortType = sortType
		sortFavorites(snap.Products, snap.SortType, s.collator)
	})
}

// SortProducts re-sorts the collection per the active sort order.
func (s *FavoritesStore) SortProducts() {
	s.commit(func(snap *domain.FavoritesSnapshot) {
		sortFavorites(snap.Products, snap.SortType, s.collator)
	})
}

// ToggleProductSelection flips bulk-delete selection for a main
// favorite. Pure local state.
func (s *FavoritesStore) ToggleProductSelection(productID int) {
	if _, ok := s.findMain(productID); !ok {
		return
	}
	s.commit(func(snap *domain.FavoritesSnapshot) {
		if _, ok := snap.SelectedProductIDs[productID]; ok {
			delete(snap.SelectedProductIDs, productID)
		} else {
			snap.SelectedProductIDs[productID] = struct{}{}
		}
	})
}

// SelectAllProducts selects or deselects every main favorite. Pure
// local state.
func (s *FavoritesStore) SelectAllProducts(selected bool) {
	s.commit(func(snap *domain.FavoritesSnapshot) {
		snap.SelectedProductIDs = make(map[int]struct{})
		if selected {
			for _, p := range snap.Products {
				if p.ListID == nil {
					snap.SelectedProductIDs[p.ProductID] = struct{}{}
				}
			}
		}
	})
}

func removeMain(products []domain.FavoriteProduct, productID int) []domain.FavoriteProduct {
	out := products[:0]
	for _, p := range products {
		if p.ProductID == productID && p.ListID == nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
