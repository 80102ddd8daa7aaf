package domain

// Product is a catalog entry as listed by GET /products.
type Product struct {
	ID        string  `json:"id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Inventory int     `json:"inventory"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Inventory > 0
}

// MaxOrderQuantity is the largest quantity the product card lets a shopper pick.
func (p Product) MaxOrderQuantity() int {
	if p.Inventory < 1 {
		return 1
	}
	return p.Inventory
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Content       []Product `json:"content"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int       `json:"totalElements"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}

// SortField is a product listing sort key.
type SortField string

const (
	SortByPrice     SortField = "PRICE"
	SortByName      SortField = "NAME"
	SortByInventory SortField = "INVENTORY"
)

// SortFields is the cycle order used by the product list.
var SortFields = []SortField{SortByPrice, SortByName, SortByInventory}

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// ProductFilter holds the listing query. Zero values are omitted from the
// request except for the sort, direction, limit and offset.
type ProductFilter struct {
	SKU       string
	Name      string
	MinPrice  *float64
	MaxPrice  *float64
	InStock   bool
	SortBy    SortField
	Direction Direction
	Limit     int
	Offset    int
}

// DefaultProductFilter returns the filter the product list starts with.
func DefaultProductFilter(limit int) ProductFilter {
	return ProductFilter{
		SortBy:    SortByPrice,
		Direction: Ascending,
		Limit:     limit,
	}
}

// CreateProductRequest is the payload for POST /products.
type CreateProductRequest struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"basePrice"`
	Inventory int     `json:"inventory"`
}
