package domain

// Favorites sort orders
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortDateAsc   = "date-asc"
	// SortDateDesc is the default: added date descending, ties broken by
	// descending product id.
	SortDateDesc = "date-desc"
)

// List Exports for API
var SortTypes = []string{
	SortPriceAsc,
	SortPriceDesc,
	SortNameAsc,
	SortNameDesc,
	SortDateAsc,
	SortDateDesc,
}

// Display fallbacks for items the gateway returns without metadata.
const (
	FallbackProductName  = "Unnamed Product"
	FallbackSupplierName = "Unknown Supplier"
)

// Checkout defaults, overridable via config.
const (
	DefaultShippingCost = 49.99
	// FreeShippingThreshold waives shipping when the selected subtotal is
	// strictly greater than this value.
	FreeShippingThreshold = 50.0
)
