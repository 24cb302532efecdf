package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/tablepay/internal/config"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewReconcileUseCase,
	NewNotificationUseCase,
	NewCheckoutUseCase,
	NewCashUseCase,
	NewTableUseCase,
	newSyncUseCase,
	newExpiryUseCase,
)

type syncParams struct {
	fx.In

	Orders    repository.OrderRepository
	Gateway   PaymentGateway
	Reconcile *ReconcileUseCase
	Config    *config.Config
	Logger    *slog.Logger
}

func newSyncUseCase(p syncParams) *SyncUseCase {
	return NewSyncUseCase(p.Orders, p.Gateway, p.Reconcile, p.Config.PendingStaleAfter, p.Config.SyncBatchSize, p.Logger)
}

type expiryParams struct {
	fx.In

	Orders    repository.OrderRepository
	Reconcile *ReconcileUseCase
	Config    *config.Config
	Logger    *slog.Logger
}

func newExpiryUseCase(p expiryParams) *ExpiryUseCase {
	return NewExpiryUseCase(p.Orders, p.Reconcile, p.Config.CashExpiryAfter, p.Config.SyncBatchSize, p.Logger)
}
