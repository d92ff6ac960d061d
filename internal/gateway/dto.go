package gateway

import (
	"time"

	"storefront-client/internal/domain"
)

// Wire shapes. The cart endpoints speak camelCase; the favorites
// endpoints keep the backend's PascalCase fields; the list endpoints use
// their own casing again. Mapping to domain types happens here so the
// stores never see the inconsistency.

type cartItemDTO struct {
	ProductID    int     `json:"productId"`
	ProductName  string  `json:"productName"`
	SupplierName string  `json:"supplierName,omitempty"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	ImageURL     string  `json:"imageUrl,omitempty"`
}

type addOrUpdateCartItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type favoriteDTO struct {
	ProductID    int     `json:"ProductId"`
	ProductName  string  `json:"ProductName,omitempty"`
	Price        float64 `json:"Price"`
	ImageURL     string  `json:"ImageUrl,omitempty"`
	AddedDate    string  `json:"AddedDate"`
	SupplierName string  `json:"SupplierName,omitempty"`
	InStock      *bool   `json:"InStock,omitempty"`
}

type addFavoriteRequest struct {
	ProductID int `json:"productId"`
}

type favoriteListDTO struct {
	FavoriteListID int    `json:"favoriteListID"`
	UserID         int    `json:"userID"`
	ListName       string `json:"listName"`
	IsPrivate      bool   `json:"isPrivate"`
	ProductIDs     []int  `json:"productIds,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

type createFavoriteListRequest struct {
	ListName  string `json:"ListName"`
	IsPrivate bool   `json:"IsPrivate"`
}

type addProductToListRequest struct {
	ProductID int `json:"ProductId"`
}

type favoriteListItemDTO struct {
	FavoriteListItemID int     `json:"favoriteListItemID"`
	FavoriteListID     int     `json:"favoriteListID"`
	ProductID          int     `json:"productID"`
	ProductName        string  `json:"productName,omitempty"`
	ProductPrice       float64 `json:"productPrice"`
	ProductImageURL    string  `json:"productImageUrl,omitempty"`
	InStock            bool    `json:"inStock"`
	AddedDate          string  `json:"addedDate"`
	SupplierName       string  `json:"supplierName,omitempty"`
}

func (d cartItemDTO) toDomain() domain.CartItem {
	supplier := d.SupplierName
	if supplier == "" {
		supplier = domain.FallbackSupplierName
	}
	return domain.CartItem{
		ProductID:    d.ProductID,
		ProductName:  d.ProductName,
		SupplierName: supplier,
		Price:        d.Price,
		Quantity:     d.Quantity,
		ImageURL:     d.ImageURL,
	}
}

func (d favoriteDTO) toDomain() domain.FavoriteProduct {
	name := d.ProductName
	if name == "" {
		name = domain.FallbackProductName
	}
	inStock := true
	if d.InStock != nil {
		inStock = *d.InStock
	}
	return domain.FavoriteProduct{
		ID:           d.ProductID,
		ProductID:    d.ProductID,
		Name:         name,
		SupplierName: d.SupplierName,
		Price:        d.Price,
		ImageURL:     d.ImageURL,
		AddedDate:    parseDate(d.AddedDate),
		InStock:      inStock,
	}
}

func (d favoriteListDTO) toDomain() domain.FavoriteList {
	return domain.FavoriteList{
		ID:         d.FavoriteListID,
		Name:       d.ListName,
		IsPrivate:  d.IsPrivate,
		ProductIDs: append([]int(nil), d.ProductIDs...),
	}
}

func (d favoriteListItemDTO) toDomain() domain.FavoriteProduct {
	name := d.ProductName
	if name == "" {
		name = domain.FallbackProductName
	}
	listID := d.FavoriteListID
	return domain.FavoriteProduct{
		ID:           d.ProductID,
		ProductID:    d.ProductID,
		Name:         name,
		SupplierName: d.SupplierName,
		Price:        d.ProductPrice,
		ImageURL:     d.ProductImageURL,
		AddedDate:    parseDate(d.AddedDate),
		InStock:      d.InStock,
		ListID:       &listID,
	}
}

// parseDate handles the timestamp formats the backend serializes
// DateTime values with. Unparseable input becomes the zero time.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
