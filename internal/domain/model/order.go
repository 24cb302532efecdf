package model

import "time"

// OrderStatus is the canonical payment status every gateway or manual
// trigger is translated into before any decision logic runs.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusSuccess  OrderStatus = "SUCCESS"
	OrderStatusExpired  OrderStatus = "EXPIRED"
	OrderStatusFailed   OrderStatus = "FAILED"
	OrderStatusRefunded OrderStatus = "REFUNDED"
)

// PaymentMethod describes how the customer settles the order.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// OrderType describes whether the order holds a physical table.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "DINE_IN"
	OrderTypeTakeAway OrderType = "TAKE_AWAY"
)

// Order describes a customer order registered at checkout.
type Order struct {
	ID             int64
	OrderCode      string
	CustomerName   string
	Notes          string
	TotalPrice     float64
	Status         OrderStatus
	PaymentMethod  PaymentMethod
	PaymentType    string
	TransactionID  string
	SettlementTime *time.Time
	TableID        *int64
	TableNumber    int
	OrderType      OrderType
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem is a line item with the unit price snapshotted at order
// creation. The price is never recomputed from the live catalog.
type OrderItem struct {
	ID       int64
	OrderID  int64
	MenuID   int64
	Name     string
	Quantity int
	Price    float64
}

// Age reports how long the order has existed relative to now.
func (o *Order) Age(now time.Time) time.Duration {
	return now.Sub(o.CreatedAt)
}

// HoldsTable reports whether the order claims a physical table while active.
func (o *Order) HoldsTable() bool {
	return o.TableID != nil && o.OrderType == OrderTypeDineIn
}
