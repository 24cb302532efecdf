package repository

import (
	"context"

	"github.com/polkiloo/tablepay/internal/domain/model"
)

// PaymentLogRepository appends and reads the append-only audit trail.
type PaymentLogRepository interface {
	Append(ctx context.Context, orderID int64, gatewayStatus, source string, payload []byte) error
	ListByOrder(ctx context.Context, orderID int64) ([]model.PaymentLog, error)
}
