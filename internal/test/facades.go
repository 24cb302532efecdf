package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
	"github.com/polkiloo/tablepay/internal/usecase"
)

// GatewayStub simulates the payment gateway for use case tests.
type GatewayStub struct {
	CreateFn func(context.Context, gateway.CreateTransactionRequest) (*model.PaymentSession, error)
	FetchFn  func(context.Context, string) (*model.GatewayEvent, error)

	Session *model.PaymentSession
	Event   *model.GatewayEvent
	Err     error

	CreateCalls []gateway.CreateTransactionRequest
	FetchCalls  []string
}

// CreateTransaction returns the configured session or error.
func (s *GatewayStub) CreateTransaction(ctx context.Context, req gateway.CreateTransactionRequest) (*model.PaymentSession, error) {
	s.CreateCalls = append(s.CreateCalls, req)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Session != nil {
		return s.Session, nil
	}
	return &model.PaymentSession{Token: "tok", RedirectURL: "https://pay.example/tok"}, nil
}

// FetchStatus returns the configured event or error.
func (s *GatewayStub) FetchStatus(ctx context.Context, orderCode string) (*model.GatewayEvent, error) {
	s.FetchCalls = append(s.FetchCalls, orderCode)
	if s.FetchFn != nil {
		return s.FetchFn(ctx, orderCode)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Event != nil {
		return s.Event, nil
	}
	return &model.GatewayEvent{OrderCode: orderCode, TransactionStatus: "pending"}, nil
}

// PosFacadeStub provides controllable behaviour for all handler endpoints.
type PosFacadeStub struct {
	CheckoutFn     func(context.Context, usecase.CheckoutInput) (*model.Order, *model.PaymentSession, error)
	OrderByCodeFn  func(context.Context, string) (*model.Order, error)
	OrdersAfterFn  func(context.Context, int64, int) ([]model.Order, int64, error)
	IngestFn       func(context.Context, *model.GatewayEvent) (*repository.TransitionResult, error)
	CheckOrderFn   func(context.Context, string) (*usecase.SyncResult, error)
	SyncPendingFn  func(context.Context) (*usecase.SweepReport, error)
	ConfirmFn      func(context.Context, string) (*repository.TransitionResult, error)
	RejectFn       func(context.Context, string, string) (*repository.TransitionResult, error)
	SweepExpiredFn func(context.Context) (*usecase.ExpiryReport, error)
	ExpiryStatusFn func(context.Context, string) (*usecase.ExpiryStatus, error)
	CreateTableFn  func(context.Context, string) (*model.Table, error)
	TablesFn       func(context.Context) ([]model.Table, error)
	DeleteTableFn  func(context.Context, int64) error
	OverrideFn     func(context.Context, int64, model.TableStatus) error
	HealthFn       func(context.Context) error

	Ingested []*model.GatewayEvent
}

func (s *PosFacadeStub) Checkout(ctx context.Context, in usecase.CheckoutInput) (*model.Order, *model.PaymentSession, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, in)
	}
	return &model.Order{ID: 1, OrderCode: "ORD-1", Status: model.OrderStatusPending}, nil, nil
}

func (s *PosFacadeStub) OrderByCode(ctx context.Context, code string) (*model.Order, error) {
	if s.OrderByCodeFn != nil {
		return s.OrderByCodeFn(ctx, code)
	}
	return &model.Order{ID: 1, OrderCode: code, Status: model.OrderStatusPending}, nil
}

func (s *PosFacadeStub) OrdersAfter(ctx context.Context, afterID int64, limit int) ([]model.Order, int64, error) {
	if s.OrdersAfterFn != nil {
		return s.OrdersAfterFn(ctx, afterID, limit)
	}
	return nil, afterID, nil
}

func (s *PosFacadeStub) IngestNotification(ctx context.Context, ev *model.GatewayEvent) (*repository.TransitionResult, error) {
	s.Ingested = append(s.Ingested, ev)
	if s.IngestFn != nil {
		return s.IngestFn(ctx, ev)
	}
	return &repository.TransitionResult{Outcome: model.TransitionApplied}, nil
}

func (s *PosFacadeStub) CheckOrder(ctx context.Context, code string) (*usecase.SyncResult, error) {
	if s.CheckOrderFn != nil {
		return s.CheckOrderFn(ctx, code)
	}
	return &usecase.SyncResult{OrderCode: code, Result: usecase.SyncUnchanged}, nil
}

func (s *PosFacadeStub) SyncPending(ctx context.Context) (*usecase.SweepReport, error) {
	if s.SyncPendingFn != nil {
		return s.SyncPendingFn(ctx)
	}
	return &usecase.SweepReport{}, nil
}

func (s *PosFacadeStub) ConfirmCash(ctx context.Context, code string) (*repository.TransitionResult, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, code)
	}
	return &repository.TransitionResult{Outcome: model.TransitionApplied, To: model.OrderStatusSuccess}, nil
}

func (s *PosFacadeStub) RejectCash(ctx context.Context, code, reason string) (*repository.TransitionResult, error) {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, code, reason)
	}
	return &repository.TransitionResult{Outcome: model.TransitionApplied, To: model.OrderStatusFailed}, nil
}

func (s *PosFacadeStub) SweepExpired(ctx context.Context) (*usecase.ExpiryReport, error) {
	if s.SweepExpiredFn != nil {
		return s.SweepExpiredFn(ctx)
	}
	return &usecase.ExpiryReport{}, nil
}

func (s *PosFacadeStub) ExpiryStatus(ctx context.Context, code string) (*usecase.ExpiryStatus, error) {
	if s.ExpiryStatusFn != nil {
		return s.ExpiryStatusFn(ctx, code)
	}
	return &usecase.ExpiryStatus{OrderCode: code, Status: model.OrderStatusPending}, nil
}

func (s *PosFacadeStub) CreateTable(ctx context.Context, name string) (*model.Table, error) {
	if s.CreateTableFn != nil {
		return s.CreateTableFn(ctx, name)
	}
	return &model.Table{ID: 1, Name: name, Status: model.TableStatusAvailable}, nil
}

func (s *PosFacadeStub) Tables(ctx context.Context) ([]model.Table, error) {
	if s.TablesFn != nil {
		return s.TablesFn(ctx)
	}
	return nil, nil
}

func (s *PosFacadeStub) DeleteTable(ctx context.Context, id int64) error {
	if s.DeleteTableFn != nil {
		return s.DeleteTableFn(ctx, id)
	}
	return nil
}

func (s *PosFacadeStub) OverrideTable(ctx context.Context, id int64, status model.TableStatus) error {
	if s.OverrideFn != nil {
		return s.OverrideFn(ctx, id, status)
	}
	return nil
}

func (s *PosFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// PollerFacadeStub mimics poller interactions with the application facade.
type PollerFacadeStub struct {
	Batches [][]model.Order
	StaleFn func(context.Context, int) ([]model.Order, error)
	SyncFn  func(context.Context, string) (*usecase.SyncResult, error)

	Synced         []string
	mu             sync.Mutex
	batchCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *PollerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *PollerFacadeStub) Unlock() { s.mu.Unlock() }

// StalePendingOrders returns batches from the configured queue.
func (s *PollerFacadeStub) StalePendingOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if s.StaleFn != nil {
		return s.StaleFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// SyncOrder records the call and returns the configured result.
func (s *PollerFacadeStub) SyncOrder(ctx context.Context, code string) (*usecase.SyncResult, error) {
	if s.SyncFn != nil {
		return s.SyncFn(ctx, code)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Synced = append(s.Synced, code)
	return &usecase.SyncResult{OrderCode: code, Result: usecase.SyncUnchanged}, nil
}

// SweeperFacadeStub mimics sweeper interactions with the application facade.
type SweeperFacadeStub struct {
	SweepFn func(context.Context) (*usecase.ExpiryReport, error)

	mu     sync.Mutex
	Sweeps int
}

// SweepExpired records the call and returns the configured report.
func (s *SweeperFacadeStub) SweepExpired(ctx context.Context) (*usecase.ExpiryReport, error) {
	s.mu.Lock()
	s.Sweeps++
	s.mu.Unlock()
	if s.SweepFn != nil {
		return s.SweepFn(ctx)
	}
	return &usecase.ExpiryReport{}, nil
}

// SweepCount reports how many sweeps ran.
func (s *SweeperFacadeStub) SweepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Sweeps
}
