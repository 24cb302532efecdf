package handlers

import (
	"context"

	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
	"github.com/polkiloo/tablepay/internal/usecase"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, in usecase.CheckoutInput) (*model.Order, *model.PaymentSession, error)
	OrderByCode(ctx context.Context, code string) (*model.Order, error)
	OrdersAfter(ctx context.Context, afterID int64, limit int) ([]model.Order, int64, error)
}

// PaymentFacade covers gateway-facing payment operations.
type PaymentFacade interface {
	IngestNotification(ctx context.Context, ev *model.GatewayEvent) (*repository.TransitionResult, error)
	CheckOrder(ctx context.Context, code string) (*usecase.SyncResult, error)
	SyncPending(ctx context.Context) (*usecase.SweepReport, error)
}

// CashFacade covers operator-driven cash settlement.
type CashFacade interface {
	ConfirmCash(ctx context.Context, code string) (*repository.TransitionResult, error)
	RejectCash(ctx context.Context, code, reason string) (*repository.TransitionResult, error)
}

// ExpiryFacade covers cash expiry enforcement.
type ExpiryFacade interface {
	SweepExpired(ctx context.Context) (*usecase.ExpiryReport, error)
	ExpiryStatus(ctx context.Context, code string) (*usecase.ExpiryStatus, error)
}

// TableFacade covers table management operations.
type TableFacade interface {
	CreateTable(ctx context.Context, name string) (*model.Table, error)
	Tables(ctx context.Context) ([]model.Table, error)
	DeleteTable(ctx context.Context, id int64) error
	OverrideTable(ctx context.Context, id int64, status model.TableStatus) error
}

// PosFacade aggregates the full set of operations used across handlers.
type PosFacade interface {
	OrderFacade
	PaymentFacade
	CashFacade
	ExpiryFacade
	TableFacade
	HealthCheck(ctx context.Context) error
}
