package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	domainErrors "github.com/polkiloo/tablepay/internal/domain/errors"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type stubOrderRepository struct {
	createFn     func(context.Context, repository.OrderDraft) (*model.Order, error)
	getByCodeFn  func(context.Context, string) (*model.Order, error)
	listAfterFn  func(context.Context, int64, int) ([]model.Order, int64, error)
	listStaleFn  func(context.Context, time.Time, *model.PaymentMethod, int) ([]model.Order, error)
	transitionFn func(context.Context, string, repository.TransitionUpdate) (*repository.TransitionResult, error)
}

func (s stubOrderRepository) Create(ctx context.Context, draft repository.OrderDraft) (*model.Order, error) {
	if s.createFn == nil {
		panic("create not implemented")
	}
	return s.createFn(ctx, draft)
}

func (s stubOrderRepository) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	if s.getByCodeFn == nil {
		panic("get by code not implemented")
	}
	return s.getByCodeFn(ctx, code)
}

func (s stubOrderRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]model.Order, int64, error) {
	if s.listAfterFn == nil {
		panic("list after not implemented")
	}
	return s.listAfterFn(ctx, afterID, limit)
}

func (s stubOrderRepository) ListStalePending(ctx context.Context, cutoff time.Time, method *model.PaymentMethod, limit int) ([]model.Order, error) {
	if s.listStaleFn == nil {
		panic("list stale pending not implemented")
	}
	return s.listStaleFn(ctx, cutoff, method, limit)
}

func (s stubOrderRepository) Transition(ctx context.Context, code string, upd repository.TransitionUpdate) (*repository.TransitionResult, error) {
	if s.transitionFn == nil {
		panic("transition not implemented")
	}
	return s.transitionFn(ctx, code, upd)
}

type stubPaymentLogRepository struct {
	appendFn func(context.Context, int64, string, string, []byte) error
	entries  []model.PaymentLog
}

func (s *stubPaymentLogRepository) Append(ctx context.Context, orderID int64, gatewayStatus, source string, payload []byte) error {
	if s.appendFn != nil {
		return s.appendFn(ctx, orderID, gatewayStatus, source, payload)
	}
	s.entries = append(s.entries, model.PaymentLog{OrderID: orderID, GatewayStatus: gatewayStatus, Source: source, Payload: payload})
	return nil
}

func (s *stubPaymentLogRepository) ListByOrder(context.Context, int64) ([]model.PaymentLog, error) {
	return s.entries, nil
}

type stubTableRepository struct {
	getByIDFn  func(context.Context, int64) (*model.Table, error)
	createFn   func(context.Context, string) (*model.Table, error)
	deleteFn   func(context.Context, int64) error
	overrideFn func(context.Context, int64, model.TableStatus) error
	listFn     func(context.Context) ([]model.Table, error)
}

func (s stubTableRepository) Create(ctx context.Context, name string) (*model.Table, error) {
	if s.createFn == nil {
		panic("create not implemented")
	}
	return s.createFn(ctx, name)
}

func (s stubTableRepository) GetByID(ctx context.Context, id int64) (*model.Table, error) {
	if s.getByIDFn == nil {
		panic("get by id not implemented")
	}
	return s.getByIDFn(ctx, id)
}

func (s stubTableRepository) List(ctx context.Context) ([]model.Table, error) {
	if s.listFn == nil {
		panic("list not implemented")
	}
	return s.listFn(ctx)
}

func (s stubTableRepository) Delete(ctx context.Context, id int64) error {
	if s.deleteFn == nil {
		panic("delete not implemented")
	}
	return s.deleteFn(ctx, id)
}

func (s stubTableRepository) Occupy(context.Context, int64) error { return nil }

func (s stubTableRepository) Release(context.Context, int64) error { return nil }

func (s stubTableRepository) Override(ctx context.Context, id int64, status model.TableStatus) error {
	if s.overrideFn == nil {
		panic("override not implemented")
	}
	return s.overrideFn(ctx, id, status)
}

type stubMenuRepository struct {
	menus map[int64]model.Menu
}

func (s stubMenuRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Menu, error) {
	found := make(map[int64]model.Menu, len(ids))
	for _, id := range ids {
		if menu, ok := s.menus[id]; ok {
			found[id] = menu
		}
	}
	return found, nil
}

func (s stubMenuRepository) List(context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	for _, m := range s.menus {
		menus = append(menus, m)
	}
	return menus, nil
}

type stubGateway struct {
	createFn func(context.Context, gateway.CreateTransactionRequest) (*model.PaymentSession, error)
	fetchFn  func(context.Context, string) (*model.GatewayEvent, error)
}

func (s stubGateway) CreateTransaction(ctx context.Context, req gateway.CreateTransactionRequest) (*model.PaymentSession, error) {
	if s.createFn == nil {
		panic("create transaction not implemented")
	}
	return s.createFn(ctx, req)
}

func (s stubGateway) FetchStatus(ctx context.Context, orderCode string) (*model.GatewayEvent, error) {
	if s.fetchFn == nil {
		panic("fetch status not implemented")
	}
	return s.fetchFn(ctx, orderCode)
}

// memoryOrderRepository keeps orders in a map and evaluates transitions with
// the real legality rules, mirroring what the storage layer does in a
// transaction.
type memoryOrderRepository struct {
	orders map[string]*model.Order
	calls  []repository.TransitionUpdate
}

func newMemoryOrderRepository(orders ...*model.Order) *memoryOrderRepository {
	repo := &memoryOrderRepository{orders: make(map[string]*model.Order)}
	for _, o := range orders {
		repo.orders[o.OrderCode] = o
	}
	return repo
}

func (r *memoryOrderRepository) Create(ctx context.Context, draft repository.OrderDraft) (*model.Order, error) {
	panic("create not implemented")
}

func (r *memoryOrderRepository) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	if order, ok := r.orders[code]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (r *memoryOrderRepository) ListAfter(context.Context, int64, int) ([]model.Order, int64, error) {
	panic("list after not implemented")
}

func (r *memoryOrderRepository) ListStalePending(ctx context.Context, cutoff time.Time, method *model.PaymentMethod, limit int) ([]model.Order, error) {
	var result []model.Order
	for _, o := range r.orders {
		if o.Status != model.OrderStatusPending || !o.CreatedAt.Before(cutoff) {
			continue
		}
		if method != nil && o.PaymentMethod != *method {
			continue
		}
		result = append(result, *o)
	}
	return result, nil
}

func (r *memoryOrderRepository) Transition(ctx context.Context, code string, upd repository.TransitionUpdate) (*repository.TransitionResult, error) {
	r.calls = append(r.calls, upd)
	order, ok := r.orders[code]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	decision := model.EvaluateTransition(order.Status, upd.Candidate)
	if decision.Outcome == model.TransitionApplied {
		order.Status = upd.Candidate
		if upd.PaymentType != "" {
			order.PaymentType = upd.PaymentType
		}
		if upd.TransactionID != "" {
			order.TransactionID = upd.TransactionID
		}
	}
	copied := *order
	return &repository.TransitionResult{
		Outcome: decision.Outcome,
		From:    decision.From,
		To:      decision.To,
		Reason:  decision.Reason,
		Order:   &copied,
	}, nil
}
