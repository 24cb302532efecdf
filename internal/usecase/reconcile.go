package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
	"github.com/polkiloo/tablepay/internal/server/http/middleware"
)

// EventDetails carries the auxiliary fields of one observed event.
type EventDetails struct {
	// Observed is the status string exactly as seen at the source.
	Observed       string
	Payload        []byte
	PaymentType    string
	TransactionID  string
	SettlementTime *time.Time
}

// ReconcileUseCase is the single authoritative writer of order status.
// All four trigger paths (webhook push, poll, manual cash action, expiry)
// funnel through Apply.
type ReconcileUseCase struct {
	orders repository.OrderRepository
	logger *slog.Logger
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(orders repository.OrderRepository, logger *slog.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{orders: orders, logger: logger}
}

// Apply reconciles a candidate status against the stored order. The
// repository serializes concurrent callers per order; repeats report
// unchanged and illegal transitions out of terminal states report
// rejected. Rejections are anomalies to log, not failures to retry.
func (u *ReconcileUseCase) Apply(ctx context.Context, orderCode string, candidate model.OrderStatus, ev EventDetails, source string) (*repository.TransitionResult, error) {
	result, err := u.orders.Transition(ctx, orderCode, repository.TransitionUpdate{
		Candidate:      candidate,
		Observed:       ev.Observed,
		Source:         source,
		Payload:        ev.Payload,
		PaymentType:    ev.PaymentType,
		TransactionID:  ev.TransactionID,
		SettlementTime: ev.SettlementTime,
	})
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case model.TransitionApplied:
		u.logger.Info("order status transition",
			slog.String("order_code", orderCode),
			slog.String("from", string(result.From)),
			slog.String("to", string(result.To)),
			slog.String("source", source),
		)
	case model.TransitionRejected:
		u.logger.Warn("order status transition rejected",
			slog.String("order_code", orderCode),
			slog.String("current", string(result.From)),
			slog.String("candidate", string(result.To)),
			slog.String("reason", result.Reason),
			slog.String("source", source),
		)
	}

	middleware.RecordReconciliation(source, string(result.Outcome))
	return result, nil
}
