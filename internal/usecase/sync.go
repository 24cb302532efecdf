package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

const (
	// SyncUnchanged reports the gateway and the database already agree.
	SyncUnchanged = "unchanged"
	// SyncGatewayUnregistered reports the gateway has no record of the
	// transaction, expected for orders just created locally.
	SyncGatewayUnregistered = "gateway_unregistered"
)

// SyncResult is the outcome of verifying one order against the gateway.
type SyncResult struct {
	OrderCode     string
	DBStatus      model.OrderStatus
	GatewayStatus string
	MappedStatus  model.OrderStatus
	Result        string
}

// Synced reports whether the check effected a transition.
func (r *SyncResult) Synced() bool {
	return strings.HasPrefix(r.Result, "synced")
}

// SweepEntry is one order's individual result within a batch sync.
type SweepEntry struct {
	OrderCode string
	Synced    bool
	From      model.OrderStatus
	To        model.OrderStatus
	Err       string
}

// SweepReport summarizes a batch sync run.
type SweepReport struct {
	Processed int
	Results   []SweepEntry
}

// SyncUseCase pulls order status from the gateway, as a fallback for
// missed pushes and for operator-triggered verification.
type SyncUseCase struct {
	orders     repository.OrderRepository
	gw         PaymentGateway
	reconcile  *ReconcileUseCase
	staleAfter time.Duration
	batchSize  int
	logger     *slog.Logger
}

// NewSyncUseCase constructs SyncUseCase.
func NewSyncUseCase(orders repository.OrderRepository, gw PaymentGateway, reconcile *ReconcileUseCase, staleAfter time.Duration, batchSize int, logger *slog.Logger) *SyncUseCase {
	return &SyncUseCase{orders: orders, gw: gw, reconcile: reconcile, staleAfter: staleAfter, batchSize: batchSize, logger: logger}
}

// CheckOne fetches the gateway status for a single order and reconciles it.
func (u *SyncUseCase) CheckOne(ctx context.Context, code string) (*SyncResult, error) {
	order, err := u.orders.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{OrderCode: code, DBStatus: order.Status}

	ev, err := u.gw.FetchStatus(ctx, code)
	if err != nil {
		if errors.Is(err, gateway.ErrOrderNotRegistered) {
			result.MappedStatus = order.Status
			result.Result = SyncGatewayUnregistered
			return result, nil
		}
		return nil, err
	}

	mapped, recognized := gateway.Translate(ev.TransactionStatus, ev.FraudStatus)
	if !recognized {
		u.logger.Warn("unrecognized gateway status, defaulting to PENDING",
			slog.String("order_code", code),
			slog.String("transaction_status", ev.TransactionStatus),
		)
	}
	result.GatewayStatus = ev.TransactionStatus
	result.MappedStatus = mapped

	transition, err := u.reconcile.Apply(ctx, code, mapped, EventDetails{
		Observed:       ev.TransactionStatus,
		Payload:        ev.Raw,
		PaymentType:    ev.PaymentType,
		TransactionID:  ev.TransactionID,
		SettlementTime: ev.SettlementTime,
	}, "poll")
	if err != nil {
		return nil, err
	}

	if transition.Outcome == model.TransitionApplied {
		result.Result = fmt.Sprintf("synced: %s → %s", transition.From, transition.To)
	} else {
		result.Result = SyncUnchanged
	}
	return result, nil
}

// SweepPending checks every PENDING order past the staleness threshold.
// One order's gateway failure is recorded as that order's result and never
// aborts the rest of the batch.
func (u *SyncUseCase) SweepPending(ctx context.Context) (*SweepReport, error) {
	cutoff := time.Now().Add(-u.staleAfter)
	orders, err := u.orders.ListStalePending(ctx, cutoff, nil, u.batchSize)
	if err != nil {
		return nil, err
	}

	report := &SweepReport{}
	for _, o := range orders {
		entry := SweepEntry{OrderCode: o.OrderCode}
		result, err := u.CheckOne(ctx, o.OrderCode)
		if err != nil {
			entry.Err = err.Error()
			u.logger.Error("sync failed for order",
				slog.String("order_code", o.OrderCode), slog.String("error", err.Error()))
		} else if result.Synced() {
			entry.Synced = true
			entry.From = result.DBStatus
			entry.To = result.MappedStatus
		}
		report.Results = append(report.Results, entry)
		report.Processed++
	}
	return report, nil
}

// StalePending exposes the poll candidates for the background poller.
func (u *SyncUseCase) StalePending(ctx context.Context, limit int) ([]model.Order, error) {
	cutoff := time.Now().Add(-u.staleAfter)
	return u.orders.ListStalePending(ctx, cutoff, nil, limit)
}
