package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

// ExpiryStatus reports how far an order is from its cash deadline.
type ExpiryStatus struct {
	OrderCode     string
	Status        model.OrderStatus
	TimeRemaining *time.Duration
	Expired       bool
}

// ExpiryEntry is one order's individual result within an expiry sweep.
type ExpiryEntry struct {
	OrderCode string
	Expired   bool
	Err       string
}

// ExpiryReport summarizes an expiry sweep run.
type ExpiryReport struct {
	Processed int
	Results   []ExpiryEntry
}

// ExpiryUseCase enforces the hard timeout on unresolved cash orders, both
// via background sweep and lazily on status reads.
type ExpiryUseCase struct {
	orders    repository.OrderRepository
	reconcile *ReconcileUseCase
	timeout   time.Duration
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

// NewExpiryUseCase constructs ExpiryUseCase.
func NewExpiryUseCase(orders repository.OrderRepository, reconcile *ReconcileUseCase, timeout time.Duration, batchSize int, logger *slog.Logger) *ExpiryUseCase {
	return &ExpiryUseCase{
		orders:    orders,
		reconcile: reconcile,
		timeout:   timeout,
		batchSize: batchSize,
		logger:    logger,
		now:       time.Now,
	}
}

// SweepExpired expires every CASH order still PENDING past the timeout.
// Per-order failures are isolated; one bad order never halts the sweep.
func (u *ExpiryUseCase) SweepExpired(ctx context.Context) (*ExpiryReport, error) {
	method := model.PaymentMethodCash
	cutoff := u.now().Add(-u.timeout)
	orders, err := u.orders.ListStalePending(ctx, cutoff, &method, u.batchSize)
	if err != nil {
		return nil, err
	}

	report := &ExpiryReport{}
	for _, o := range orders {
		entry := ExpiryEntry{OrderCode: o.OrderCode}
		result, err := u.expire(ctx, o.OrderCode, "expiry_sweep")
		if err != nil {
			entry.Err = err.Error()
			u.logger.Error("expiry failed for order",
				slog.String("order_code", o.OrderCode), slog.String("error", err.Error()))
		} else {
			entry.Expired = result.Outcome == model.TransitionApplied
		}
		report.Results = append(report.Results, entry)
		report.Processed++
	}
	return report, nil
}

// Check reports the expiry state of a single order and, when the deadline
// has passed, applies the EXPIRED transition synchronously so a polling
// client never observes a stale PENDING past the timeout.
func (u *ExpiryUseCase) Check(ctx context.Context, code string) (*ExpiryStatus, error) {
	order, err := u.orders.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	status := &ExpiryStatus{OrderCode: code, Status: order.Status}
	if order.PaymentMethod != model.PaymentMethodCash || order.Status != model.OrderStatusPending {
		status.Expired = order.Status == model.OrderStatusExpired
		return status, nil
	}

	remaining := u.timeout - order.Age(u.now())
	if remaining > 0 {
		status.TimeRemaining = &remaining
		return status, nil
	}

	result, err := u.expire(ctx, code, "expiry_check")
	if err != nil {
		return nil, err
	}
	status.Status = result.Order.Status
	status.Expired = true
	return status, nil
}

func (u *ExpiryUseCase) expire(ctx context.Context, code, source string) (*repository.TransitionResult, error) {
	payload, _ := json.Marshal(map[string]string{"source": source})
	return u.reconcile.Apply(ctx, code, model.OrderStatusExpired, EventDetails{
		Observed: "expired",
		Payload:  payload,
	}, source)
}
