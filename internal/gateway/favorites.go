package gateway

import (
	"context"
	"fmt"
	"net/http"

	"storefront-client/internal/domain"
)

var _ domain.FavoritesGateway = (*Client)(nil)

func (c *Client) GetFavorites(ctx context.Context) ([]domain.FavoriteProduct, error) {
	var dtos []favoriteDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/favorites", nil, &dtos); err != nil {
		return nil, err
	}
	products := make([]domain.FavoriteProduct, 0, len(dtos))
	for _, d := range dtos {
		products = append(products, d.toDomain())
	}
	return products, nil
}

func (c *Client) AddFavorite(ctx context.Context, productID int) (*domain.FavoriteProduct, error) {
	req := addFavoriteRequest{ProductID: productID}
	var dto favoriteDTO
	if err := c.do(ctx, http.MethodPost, "/api/v1/favorites", req, &dto); err != nil {
		return nil, err
	}
	product := dto.toDomain()
	return &product, nil
}

func (c *Client) RemoveFavorite(ctx context.Context, productID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/favorites/%d", productID), nil, nil)
}

func (c *Client) GetFavoriteLists(ctx context.Context, userID int) ([]domain.FavoriteList, error) {
	var dtos []favoriteListDTO
	path := fmt.Sprintf("/api/v1/favorite-lists?userId=%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, err
	}
	lists := make([]domain.FavoriteList, 0, len(dtos))
	for _, d := range dtos {
		lists = append(lists, d.toDomain())
	}
	return lists, nil
}

func (c *Client) CreateFavoriteList(ctx context.Context, userID int, name string, isPrivate bool) (*domain.FavoriteList, error) {
	req := createFavoriteListRequest{ListName: name, IsPrivate: isPrivate}
	var dto favoriteListDTO
	path := fmt.Sprintf("/api/v1/favorite-lists?userId=%d", userID)
	if err := c.do(ctx, http.MethodPost, path, req, &dto); err != nil {
		return nil, err
	}
	list := dto.toDomain()
	return &list, nil
}

func (c *Client) DeleteFavoriteList(ctx context.Context, listID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/favorite-lists/%d", listID), nil, nil)
}

func (c *Client) AddProductToList(ctx context.Context, listID, productID int) error {
	req := addProductToListRequest{ProductID: productID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/favorite-lists/%d/products", listID), req, nil)
}

func (c *Client) RemoveProductFromList(ctx context.Context, listID, productID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/favorite-lists/%d/products/%d", listID, productID), nil, nil)
}

func (c *Client) GetListProducts(ctx context.Context, listID int) ([]domain.FavoriteProduct, error) {
	var dtos []favoriteListItemDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/favorite-lists/%d/products", listID), nil, &dtos); err != nil {
		return nil, err
	}
	products := make([]domain.FavoriteProduct, 0, len(dtos))
	for _, d := range dtos {
		products = append(products, d.toDomain())
	}
	return products, nil
}
