package repository

import (
	"context"
	"time"

	"github.com/polkiloo/tablepay/internal/domain/model"
)

// OrderDraft carries the fields required to register a new order.
type OrderDraft struct {
	OrderCode     string
	CustomerName  string
	Notes         string
	TotalPrice    float64
	PaymentMethod model.PaymentMethod
	OrderType     model.OrderType
	TableID       *int64
	TableNumber   int
	Items         []model.OrderItem
}

// TransitionUpdate describes one observed event to reconcile against an order.
type TransitionUpdate struct {
	Candidate model.OrderStatus
	// Observed is the raw status string as seen at the source, recorded in
	// the audit log even when the transition is a no-op.
	Observed       string
	Source         string
	Payload        []byte
	PaymentType    string
	TransactionID  string
	SettlementTime *time.Time
}

// TransitionResult reports what the reconciliation actually did.
type TransitionResult struct {
	Outcome model.TransitionOutcome
	From    model.OrderStatus
	To      model.OrderStatus
	Reason  string
	Order   *model.Order
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create registers the order with status PENDING and, for dine-in
	// orders, marks the referenced table occupied in the same transaction.
	Create(ctx context.Context, draft OrderDraft) (*model.Order, error)
	GetByCode(ctx context.Context, code string) (*model.Order, error)
	// ListAfter returns orders with id greater than afterID together with
	// the new watermark (the max id the caller should poll from next).
	ListAfter(ctx context.Context, afterID int64, limit int) ([]model.Order, int64, error)
	// ListStalePending selects PENDING orders created before the cutoff,
	// optionally filtered by payment method.
	ListStalePending(ctx context.Context, cutoff time.Time, method *model.PaymentMethod, limit int) ([]model.Order, error)
	// Transition applies a candidate status under a per-order row lock.
	// Exactly one concurrent caller wins; the others observe unchanged or
	// rejected. Every call appends a payment log row.
	Transition(ctx context.Context, code string, upd TransitionUpdate) (*TransitionResult, error)
}
