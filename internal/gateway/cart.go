package gateway

import (
	"context"
	"fmt"
	"net/http"

	"storefront-client/internal/domain"
)

var _ domain.CartGateway = (*Client)(nil)

func (c *Client) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	var dtos []cartItemDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/cart", nil, &dtos); err != nil {
		return nil, err
	}
	items := make([]domain.CartItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, d.toDomain())
	}
	return items, nil
}

func (c *Client) AddOrUpdateItem(ctx context.Context, productID, quantity int) (*domain.CartItem, error) {
	req := addOrUpdateCartItemRequest{ProductID: productID, Quantity: quantity}
	var dto cartItemDTO
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart", req, &dto); err != nil {
		return nil, err
	}
	item := dto.toDomain()
	return &item, nil
}

func (c *Client) RemoveItem(ctx context.Context, productID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/cart/%d", productID), nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/cart/clear", nil, nil)
}
