package app

import (
	"context"

	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
	"github.com/polkiloo/tablepay/internal/storage/postgres"
	"github.com/polkiloo/tablepay/internal/usecase"
)

// PosFacade is the single application entry point shared by the HTTP layer
// and the background workers.
type PosFacade struct {
	checkout *usecase.CheckoutUseCase
	webhooks *usecase.NotificationUseCase
	cash     *usecase.CashUseCase
	sync     *usecase.SyncUseCase
	expiry   *usecase.ExpiryUseCase
	tables   *usecase.TableUseCase
	storage  *postgres.Storage
}

// NewPosFacade constructs PosFacade.
func NewPosFacade(
	checkout *usecase.CheckoutUseCase,
	webhooks *usecase.NotificationUseCase,
	cash *usecase.CashUseCase,
	sync *usecase.SyncUseCase,
	expiry *usecase.ExpiryUseCase,
	tables *usecase.TableUseCase,
	storage *postgres.Storage,
) *PosFacade {
	return &PosFacade{
		checkout: checkout,
		webhooks: webhooks,
		cash:     cash,
		sync:     sync,
		expiry:   expiry,
		tables:   tables,
		storage:  storage,
	}
}

func (f *PosFacade) Checkout(ctx context.Context, in usecase.CheckoutInput) (*model.Order, *model.PaymentSession, error) {
	return f.checkout.Create(ctx, in)
}

// OrderByCode runs the lazy expiry check before reading, so a cash order
// past its deadline is never served as PENDING.
func (f *PosFacade) OrderByCode(ctx context.Context, code string) (*model.Order, error) {
	if _, err := f.expiry.Check(ctx, code); err != nil {
		return nil, err
	}
	return f.checkout.GetByCode(ctx, code)
}

func (f *PosFacade) OrdersAfter(ctx context.Context, afterID int64, limit int) ([]model.Order, int64, error) {
	return f.checkout.ListAfter(ctx, afterID, limit)
}

func (f *PosFacade) IngestNotification(ctx context.Context, ev *model.GatewayEvent) (*repository.TransitionResult, error) {
	return f.webhooks.Ingest(ctx, ev)
}

// CheckOrder verifies one order against the gateway, applying the lazy
// expiry check first so cash orders resolve locally instead of hitting the
// gateway for a transaction it never saw.
func (f *PosFacade) CheckOrder(ctx context.Context, code string) (*usecase.SyncResult, error) {
	if _, err := f.expiry.Check(ctx, code); err != nil {
		return nil, err
	}
	return f.sync.CheckOne(ctx, code)
}

func (f *PosFacade) SyncPending(ctx context.Context) (*usecase.SweepReport, error) {
	return f.sync.SweepPending(ctx)
}

func (f *PosFacade) StalePendingOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.sync.StalePending(ctx, limit)
}

func (f *PosFacade) SyncOrder(ctx context.Context, code string) (*usecase.SyncResult, error) {
	return f.sync.CheckOne(ctx, code)
}

func (f *PosFacade) ConfirmCash(ctx context.Context, code string) (*repository.TransitionResult, error) {
	return f.cash.Confirm(ctx, code)
}

func (f *PosFacade) RejectCash(ctx context.Context, code, reason string) (*repository.TransitionResult, error) {
	return f.cash.Reject(ctx, code, reason)
}

func (f *PosFacade) SweepExpired(ctx context.Context) (*usecase.ExpiryReport, error) {
	return f.expiry.SweepExpired(ctx)
}

func (f *PosFacade) ExpiryStatus(ctx context.Context, code string) (*usecase.ExpiryStatus, error) {
	return f.expiry.Check(ctx, code)
}

func (f *PosFacade) CreateTable(ctx context.Context, name string) (*model.Table, error) {
	return f.tables.Create(ctx, name)
}

func (f *PosFacade) Tables(ctx context.Context) ([]model.Table, error) {
	return f.tables.List(ctx)
}

func (f *PosFacade) DeleteTable(ctx context.Context, id int64) error {
	return f.tables.Delete(ctx, id)
}

func (f *PosFacade) OverrideTable(ctx context.Context, id int64, status model.TableStatus) error {
	return f.tables.Override(ctx, id, status)
}

func (f *PosFacade) HealthCheck(ctx context.Context) error {
	return f.storage.HealthCheck(ctx)
}
