package domain

import "testing"

func TestCartItemDiscountPercent(t *testing.T) {
	tests := []struct {
		name string
		item CartItem
		want int
	}{
		{"no base price", CartItem{UnitPrice: 10}, 0},
		{"same price", CartItem{UnitPrice: 10, BaseUnitPrice: 10}, 0},
		{"ten percent", CartItem{UnitPrice: 9, BaseUnitPrice: 10}, 10},
		{"rounds", CartItem{UnitPrice: 2, BaseUnitPrice: 3}, 33},
		{"rounds up", CartItem{UnitPrice: 1, BaseUnitPrice: 3}, 67},
		{"price above base", CartItem{UnitPrice: 12, BaseUnitPrice: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.DiscountPercent(); got != tt.want {
				t.Errorf("DiscountPercent() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCartSummary(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{SKU: "A", Quantity: 2},
			{SKU: "B", Quantity: 3},
		},
		TotalPrice: 42.5,
	}
	if got := c.ItemCount(); got != 5 {
		t.Errorf("ItemCount() = %d, want 5", got)
	}
	if got := c.DisplaySubtotal(); got != 42.5 {
		t.Errorf("DisplaySubtotal() = %v, want 42.5 (falls back to total)", got)
	}
	c.Subtotal = 50
	if got := c.DisplaySubtotal(); got != 50 {
		t.Errorf("DisplaySubtotal() = %v, want 50", got)
	}
	if c.IsEmpty() {
		t.Error("IsEmpty() = true for a cart with items")
	}
}

func TestCartIsEmpty(t *testing.T) {
	var nilCart *Cart
	if !nilCart.IsEmpty() {
		t.Error("nil cart should be empty")
	}
	if !(&Cart{}).IsEmpty() {
		t.Error("cart without items should be empty")
	}
	if !(&Cart{Empty: true, Items: []CartItem{{SKU: "A", Quantity: 1}}}).IsEmpty() {
		t.Error("cart flagged empty by the server should be empty")
	}
	if nilCart.ItemCount() != 0 {
		t.Error("nil cart should have zero items")
	}
}
