package dto

import "time"

// CheckoutItemRequest references a menu entry by id.
type CheckoutItemRequest struct {
	MenuID   int64 `json:"menu_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required"`
}

// CheckoutRequest describes a new order payload.
type CheckoutRequest struct {
	CustomerName  string                `json:"customer_name" binding:"required"`
	Notes         string                `json:"notes"`
	PaymentMethod string                `json:"payment_method" binding:"required"`
	OrderType     string                `json:"order_type" binding:"required"`
	TableID       *int64                `json:"table_id"`
	TableNumber   int                   `json:"table_number"`
	Items         []CheckoutItemRequest `json:"items" binding:"required"`
}

// OrderItemResponse is one order line with its snapshotted price.
type OrderItemResponse struct {
	MenuID   int64   `json:"menu_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderResponse describes an order in API responses.
type OrderResponse struct {
	ID             int64               `json:"id"`
	OrderCode      string              `json:"order_code"`
	CustomerName   string              `json:"customer_name"`
	Notes          string              `json:"notes,omitempty"`
	TotalPrice     float64             `json:"total_price"`
	Status         string              `json:"status"`
	PaymentMethod  string              `json:"payment_method"`
	PaymentType    string              `json:"payment_type,omitempty"`
	TransactionID  string              `json:"transaction_id,omitempty"`
	SettlementTime *time.Time          `json:"settlement_time,omitempty"`
	TableID        *int64              `json:"table_id,omitempty"`
	TableNumber    int                 `json:"table_number,omitempty"`
	OrderType      string              `json:"order_type"`
	Items          []OrderItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// PaymentSessionResponse carries the gateway payment token.
type PaymentSessionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// CheckoutResponse is returned after a successful checkout.
type CheckoutResponse struct {
	Order   OrderResponse           `json:"order"`
	Payment *PaymentSessionResponse `json:"payment,omitempty"`
}

// OrderListResponse carries a page of orders plus the watermark clients
// use to poll for new orders.
type OrderListResponse struct {
	Orders    []OrderResponse `json:"orders"`
	Watermark int64           `json:"watermark"`
}
