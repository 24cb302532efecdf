package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	domainErrors "github.com/polkiloo/tablepay/internal/domain/errors"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

// DefaultRejectReason is recorded when an operator rejects a cash order
// without giving a reason.
const DefaultRejectReason = "rejected_by_admin"

// CashUseCase handles operator-driven cash settlement, bypassing the
// gateway entirely but funneling through the same reconciliation engine.
type CashUseCase struct {
	orders    repository.OrderRepository
	reconcile *ReconcileUseCase
	logger    *slog.Logger
}

// NewCashUseCase constructs CashUseCase.
func NewCashUseCase(orders repository.OrderRepository, reconcile *ReconcileUseCase, logger *slog.Logger) *CashUseCase {
	return &CashUseCase{orders: orders, reconcile: reconcile, logger: logger}
}

// Confirm settles a CASH order as paid. Only CASH orders in PENDING may be
// confirmed; anything else reports the current status in a conflict error.
func (u *CashUseCase) Confirm(ctx context.Context, code string) (*repository.TransitionResult, error) {
	if err := u.guard(ctx, code); err != nil {
		return nil, err
	}
	return u.reconcile.Apply(ctx, code, model.OrderStatusSuccess, EventDetails{
		Observed:    "cash_confirm",
		Payload:     manualPayload("cash_confirm", ""),
		PaymentType: "cash",
	}, "cash_confirm")
}

// Reject marks a CASH order as failed with the given reason.
func (u *CashUseCase) Reject(ctx context.Context, code, reason string) (*repository.TransitionResult, error) {
	if err := u.guard(ctx, code); err != nil {
		return nil, err
	}
	if reason == "" {
		reason = DefaultRejectReason
	}
	return u.reconcile.Apply(ctx, code, model.OrderStatusFailed, EventDetails{
		Observed:    "cash_reject",
		Payload:     manualPayload("cash_reject", reason),
		PaymentType: reason,
	}, "cash_reject")
}

func (u *CashUseCase) guard(ctx context.Context, code string) error {
	order, err := u.orders.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if order.PaymentMethod != model.PaymentMethodCash || order.Status != model.OrderStatusPending {
		return &domainErrors.StateConflictError{
			OrderCode:     code,
			CurrentStatus: string(order.Status),
		}
	}
	return nil
}

func manualPayload(action, reason string) []byte {
	payload := map[string]string{"source": action}
	if reason != "" {
		payload["reason"] = reason
	}
	raw, _ := json.Marshal(payload)
	return raw
}
