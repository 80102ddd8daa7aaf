package domain

import "math"

// Cart is the caller's active cart for the selected store.
type Cart struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId,omitempty"`
	Active         bool       `json:"active"`
	Items          []CartItem `json:"items"`
	Subtotal       float64    `json:"subtotal"`
	DiscountAmount float64    `json:"discountAmount"`
	TotalPrice     float64    `json:"totalPrice"`
	Empty          bool       `json:"empty"`
}

// CartItem is one line of a cart. UnitPrice is the price after pricing rules,
// BaseUnitPrice the catalog price.
type CartItem struct {
	ProductID     string  `json:"productId"`
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	BaseUnitPrice float64 `json:"baseUnitPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// DisplaySubtotal returns the subtotal, falling back to the total when the
// server did not report one.
func (c *Cart) DisplaySubtotal() float64 {
	if c == nil {
		return 0
	}
	if c.Subtotal != 0 {
		return c.Subtotal
	}
	return c.TotalPrice
}

// IsEmpty reports whether there is nothing to order.
func (c *Cart) IsEmpty() bool {
	return c == nil || c.Empty || len(c.Items) == 0
}

// HasDiscount reports whether the unit price is below the catalog price.
func (it CartItem) HasDiscount() bool {
	return it.BaseUnitPrice > 0 && it.UnitPrice < it.BaseUnitPrice
}

// DiscountPercent returns the discount as a whole percentage, or 0.
func (it CartItem) DiscountPercent() int {
	if !it.HasDiscount() {
		return 0
	}
	return int(math.Round((it.BaseUnitPrice - it.UnitPrice) / it.BaseUnitPrice * 100))
}
