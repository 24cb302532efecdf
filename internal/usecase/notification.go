package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	domainErrors "github.com/polkiloo/tablepay/internal/domain/errors"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

// NotificationUseCase ingests asynchronous push events from the gateway.
// Failures here are recorded and swallowed: the transport layer always
// acknowledges so the provider never enters a redelivery storm, and every
// anomaly stays reconstructable from the payment log.
type NotificationUseCase struct {
	orders    repository.OrderRepository
	logs      repository.PaymentLogRepository
	verifier  *gateway.Verifier
	reconcile *ReconcileUseCase
	logger    *slog.Logger
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(orders repository.OrderRepository, logs repository.PaymentLogRepository, verifier *gateway.Verifier, reconcile *ReconcileUseCase, logger *slog.Logger) *NotificationUseCase {
	return &NotificationUseCase{orders: orders, logs: logs, verifier: verifier, reconcile: reconcile, logger: logger}
}

// Ingest processes one push event. The returned result is nil when the
// event was discarded (bad signature, unknown order); the caller
// acknowledges either way.
func (u *NotificationUseCase) Ingest(ctx context.Context, ev *model.GatewayEvent) (*repository.TransitionResult, error) {
	if !u.verifier.Verify(ev.OrderCode, ev.StatusCode, ev.GrossAmount, ev.SignatureKey) {
		u.logger.Warn("webhook signature mismatch",
			slog.String("order_code", ev.OrderCode),
			slog.String("transaction_status", ev.TransactionStatus),
		)
		if order, err := u.orders.GetByCode(ctx, ev.OrderCode); err == nil {
			if err := u.logs.Append(ctx, order.ID, "signature_mismatch", "webhook", ev.Raw); err != nil {
				u.logger.Error("append signature anomaly failed", slog.String("error", err.Error()))
			}
		}
		return nil, domainErrors.ErrAuthenticity
	}

	status, recognized := gateway.Translate(ev.TransactionStatus, ev.FraudStatus)
	if !recognized {
		u.logger.Warn("unrecognized gateway status, defaulting to PENDING",
			slog.String("order_code", ev.OrderCode),
			slog.String("transaction_status", ev.TransactionStatus),
			slog.String("fraud_status", ev.FraudStatus),
		)
	}

	result, err := u.reconcile.Apply(ctx, ev.OrderCode, status, EventDetails{
		Observed:       ev.TransactionStatus,
		Payload:        ev.Raw,
		PaymentType:    ev.PaymentType,
		TransactionID:  ev.TransactionID,
		SettlementTime: ev.SettlementTime,
	}, "webhook")
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// Race with a local write not yet visible, or a bogus payload.
			u.logger.Warn("webhook for unknown order code",
				slog.String("order_code", ev.OrderCode))
			return nil, err
		}
		return nil, err
	}
	return result, nil
}
