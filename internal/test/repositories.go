package test

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/tablepay/internal/domain/errors"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

// TransitionCall stores information about Transition invocations.
type TransitionCall struct {
	Code   string
	Update repository.TransitionUpdate
}

// OrderRepositoryStub stores orders in-memory for tests. Transition applies
// the same legality rules as the real repository, without locking.
type OrderRepositoryStub struct {
	CreateFn           func(context.Context, repository.OrderDraft) (*model.Order, error)
	GetByCodeFn        func(context.Context, string) (*model.Order, error)
	ListAfterFn        func(context.Context, int64, int) ([]model.Order, int64, error)
	ListStalePendingFn func(context.Context, time.Time, *model.PaymentMethod, int) ([]model.Order, error)
	TransitionFn       func(context.Context, string, repository.TransitionUpdate) (*repository.TransitionResult, error)

	Orders      map[string]*model.Order
	Next        int64
	Transitions []TransitionCall
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order), Next: 1}
}

// Put registers an order directly, bypassing Create.
func (s *OrderRepositoryStub) Put(order *model.Order) {
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	if order.ID == 0 {
		order.ID = s.Next
		s.Next++
	}
	s.Orders[order.OrderCode] = order
}

// Create registers a new PENDING order.
func (s *OrderRepositoryStub) Create(ctx context.Context, draft repository.OrderDraft) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	if _, exists := s.Orders[draft.OrderCode]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	order := &model.Order{
		ID:            s.Next,
		OrderCode:     draft.OrderCode,
		CustomerName:  draft.CustomerName,
		Notes:         draft.Notes,
		TotalPrice:    draft.TotalPrice,
		Status:        model.OrderStatusPending,
		PaymentMethod: draft.PaymentMethod,
		OrderType:     draft.OrderType,
		TableID:       draft.TableID,
		TableNumber:   draft.TableNumber,
		Items:         draft.Items,
		CreatedAt:     time.Now(),
	}
	s.Next++
	s.Orders[order.OrderCode] = order
	return order, nil
}

// GetByCode fetches an order by code or returns not found.
func (s *OrderRepositoryStub) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	if s.GetByCodeFn != nil {
		return s.GetByCodeFn(ctx, code)
	}
	if order, ok := s.Orders[code]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListAfter returns stored orders past the watermark.
func (s *OrderRepositoryStub) ListAfter(ctx context.Context, afterID int64, limit int) ([]model.Order, int64, error) {
	if s.ListAfterFn != nil {
		return s.ListAfterFn(ctx, afterID, limit)
	}
	watermark := afterID
	var orders []model.Order
	for _, o := range s.Orders {
		if o.ID > afterID {
			orders = append(orders, *o)
			if o.ID > watermark {
				watermark = o.ID
			}
		}
	}
	return orders, watermark, nil
}

// ListStalePending returns PENDING orders created before the cutoff.
func (s *OrderRepositoryStub) ListStalePending(ctx context.Context, cutoff time.Time, method *model.PaymentMethod, limit int) ([]model.Order, error) {
	if s.ListStalePendingFn != nil {
		return s.ListStalePendingFn(ctx, cutoff, method, limit)
	}
	var orders []model.Order
	for _, o := range s.Orders {
		if o.Status != model.OrderStatusPending || !o.CreatedAt.Before(cutoff) {
			continue
		}
		if method != nil && o.PaymentMethod != *method {
			continue
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// Transition evaluates the candidate against the stored order and records
// the invocation.
func (s *OrderRepositoryStub) Transition(ctx context.Context, code string, upd repository.TransitionUpdate) (*repository.TransitionResult, error) {
	s.Transitions = append(s.Transitions, TransitionCall{Code: code, Update: upd})
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, code, upd)
	}

	order, ok := s.Orders[code]
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
		if upd.Candidate == model.OrderStatusSuccess {
			settled := time.Now()
			if upd.SettlementTime != nil {
				settled = *upd.SettlementTime
			}
			order.SettlementTime = &settled
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

// PaymentLogRepositoryStub collects appended audit rows.
type PaymentLogRepositoryStub struct {
	AppendFn func(context.Context, int64, string, string, []byte) error
	Entries  []model.PaymentLog
}

// Append records the audit row in-memory.
func (s *PaymentLogRepositoryStub) Append(ctx context.Context, orderID int64, gatewayStatus, source string, payload []byte) error {
	if s.AppendFn != nil {
		return s.AppendFn(ctx, orderID, gatewayStatus, source, payload)
	}
	s.Entries = append(s.Entries, model.PaymentLog{
		ID:            int64(len(s.Entries) + 1),
		OrderID:       orderID,
		GatewayStatus: gatewayStatus,
		Source:        source,
		Payload:       payload,
		CreatedAt:     time.Now(),
	})
	return nil
}

// ListByOrder returns collected rows for the order.
func (s *PaymentLogRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.PaymentLog, error) {
	var logs []model.PaymentLog
	for _, entry := range s.Entries {
		if entry.OrderID == orderID {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}

// TableRepositoryStub stores tables in-memory for tests.
type TableRepositoryStub struct {
	GetByIDFn  func(context.Context, int64) (*model.Table, error)
	DeleteFn   func(context.Context, int64) error
	OverrideFn func(context.Context, int64, model.TableStatus) error

	Tables   map[int64]*model.Table
	Next     int64
	Occupied []int64
	Released []int64
}

// NewTableRepositoryStub constructs stub repository with initialized maps.
func NewTableRepositoryStub() *TableRepositoryStub {
	return &TableRepositoryStub{Tables: make(map[int64]*model.Table), Next: 1}
}

// Put registers a table directly.
func (s *TableRepositoryStub) Put(table *model.Table) {
	if s.Tables == nil {
		s.Tables = make(map[int64]*model.Table)
	}
	if table.ID == 0 {
		table.ID = s.Next
		s.Next++
	}
	s.Tables[table.ID] = table
}

// Create registers a new AVAILABLE table.
func (s *TableRepositoryStub) Create(ctx context.Context, name string) (*model.Table, error) {
	if s.Tables == nil {
		s.Tables = make(map[int64]*model.Table)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	table := &model.Table{ID: s.Next, Name: name, Status: model.TableStatusAvailable}
	s.Next++
	s.Tables[table.ID] = table
	return table, nil
}

// GetByID fetches a table or returns not found.
func (s *TableRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Table, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	if table, ok := s.Tables[id]; ok {
		copied := *table
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all stored tables.
func (s *TableRepositoryStub) List(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	for _, t := range s.Tables {
		tables = append(tables, *t)
	}
	return tables, nil
}

// Delete removes a table.
func (s *TableRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	if _, ok := s.Tables[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Tables, id)
	return nil
}

// Occupy marks a table OCCUPIED and records the call.
func (s *TableRepositoryStub) Occupy(ctx context.Context, id int64) error {
	s.Occupied = append(s.Occupied, id)
	if table, ok := s.Tables[id]; ok {
		table.Status = model.TableStatusOccupied
	}
	return nil
}

// Release marks a table AVAILABLE and records the call.
func (s *TableRepositoryStub) Release(ctx context.Context, id int64) error {
	s.Released = append(s.Released, id)
	if table, ok := s.Tables[id]; ok {
		table.Status = model.TableStatusAvailable
	}
	return nil
}

// Override applies an admin status change.
func (s *TableRepositoryStub) Override(ctx context.Context, id int64, status model.TableStatus) error {
	if s.OverrideFn != nil {
		return s.OverrideFn(ctx, id, status)
	}
	table, ok := s.Tables[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	table.Status = status
	return nil
}

// MenuRepositoryStub serves catalog entries from a fixed map.
type MenuRepositoryStub struct {
	GetByIDsFn func(context.Context, []int64) (map[int64]model.Menu, error)
	Menus      map[int64]model.Menu
}

// GetByIDs returns the configured entries matching the ids.
func (s *MenuRepositoryStub) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Menu, error) {
	if s.GetByIDsFn != nil {
		return s.GetByIDsFn(ctx, ids)
	}
	found := make(map[int64]model.Menu, len(ids))
	for _, id := range ids {
		if menu, ok := s.Menus[id]; ok {
			found[id] = menu
		}
	}
	return found, nil
}

// List returns all configured entries.
func (s *MenuRepositoryStub) List(ctx context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	for _, m := range s.Menus {
		menus = append(menus, m)
	}
	return menus, nil
}
