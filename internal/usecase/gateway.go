package usecase

import (
	"context"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	"github.com/polkiloo/tablepay/internal/domain/model"
)

// PaymentGateway exposes the subset of gateway operations the use cases need.
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req gateway.CreateTransactionRequest) (*model.PaymentSession, error)
	FetchStatus(ctx context.Context, orderCode string) (*model.GatewayEvent, error)
}
