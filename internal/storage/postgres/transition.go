package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/tablepay/internal/domain/errors"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

// Transition applies a candidate status to the order identified by code.
// The order row is locked for the duration of the transaction, so
// concurrent callers for the same order are serialized: exactly one
// effects the transition, the rest observe unchanged or rejected. Every
// observed event appends a payment log row, including no-ops.
func (r *orderRepository) Transition(ctx context.Context, code string, upd repository.TransitionUpdate) (*repository.TransitionResult, error) {
	var result *repository.TransitionResult

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		lockQuery := `SELECT ` + orderColumns + ` FROM orders WHERE order_code=$1 FOR UPDATE`
		var o model.Order
		if err := scanOrder(tx.QueryRow(ctx, lockQuery, code), &o); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		decision := model.EvaluateTransition(o.Status, upd.Candidate)
		result = &repository.TransitionResult{
			Outcome: decision.Outcome,
			From:    decision.From,
			To:      decision.To,
			Reason:  decision.Reason,
			Order:   &o,
		}

		const appendLog = `INSERT INTO payment_logs (order_id, gateway_status, source, payload) VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, appendLog, o.ID, upd.Observed, upd.Source, upd.Payload); err != nil {
			return err
		}

		if decision.Outcome != model.TransitionApplied {
			return nil
		}

		paymentType := o.PaymentType
		if upd.PaymentType != "" {
			paymentType = upd.PaymentType
		}
		transactionID := o.TransactionID
		if upd.TransactionID != "" {
			transactionID = upd.TransactionID
		}
		settlement := o.SettlementTime
		if decision.To == model.OrderStatusSuccess {
			if upd.SettlementTime != nil {
				settlement = upd.SettlementTime
			} else {
				now := time.Now().UTC()
				settlement = &now
			}
		}

		const updateOrder = `UPDATE orders
            SET status=$1, payment_type=$2, transaction_id=$3, settlement_time=$4, updated_at=NOW()
            WHERE id=$5`
		if _, err := tx.Exec(ctx, updateOrder, decision.To, paymentType, transactionID, settlement, o.ID); err != nil {
			return err
		}

		o.Status = decision.To
		o.PaymentType = paymentType
		o.TransactionID = transactionID
		o.SettlementTime = settlement

		if o.TableID == nil {
			return nil
		}
		switch decision.To {
		case model.OrderStatusSuccess:
			if o.OrderType == model.OrderTypeDineIn {
				return occupyTableTx(ctx, tx, *o.TableID)
			}
		case model.OrderStatusExpired, model.OrderStatusFailed, model.OrderStatusRefunded:
			return releaseTableTx(ctx, tx, *o.TableID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
