package domain

// Order is the result of POST /orders.
type Order struct {
	ID             string      `json:"id"`
	IdempotencyKey string      `json:"idempotencyKey,omitempty"`
	Status         string      `json:"status"`
	Items          []OrderItem `json:"items"`
	Subtotal       float64     `json:"subtotal"`
	DiscountAmount float64     `json:"discountAmount"`
	TotalAmount    float64     `json:"totalAmount"`
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	ProductID     string  `json:"productId"`
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	BaseUnitPrice float64 `json:"baseUnitPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}
