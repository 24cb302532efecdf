package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/usecase"
)

// SyncFacade exposes the subset of application functionality required by the poller.
type SyncFacade interface {
	StalePendingOrders(ctx context.Context, limit int) ([]model.Order, error)
	SyncOrder(ctx context.Context, code string) (*usecase.SyncResult, error)
}

// StatusPoller periodically pulls gateway status for stale PENDING orders
// and reconciles them concurrently. It is the safety net for webhooks the
// service never received.
type StatusPoller struct {
	facade       SyncFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewStatusPoller constructs the polling worker pool.
func NewStatusPoller(facade SyncFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *StatusPoller {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &StatusPoller{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background polling.
func (p *StatusPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *StatusPoller) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *StatusPoller) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.StalePendingOrders(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch stale pending orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *StatusPoller) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleOrder(ctx, order)
		}
	}
}

func (p *StatusPoller) handleOrder(ctx context.Context, order model.Order) {
	result, err := p.facade.SyncOrder(ctx, order.OrderCode)
	if err != nil {
		var rateLimited gateway.TooManyRequestsError
		var unavailable gateway.UnavailableError
		switch {
		case errors.As(err, &rateLimited):
			p.logger.Warn("gateway rate limited", slog.Duration("retry_after", rateLimited.RetryAfter))
			time.Sleep(rateLimited.RetryAfter)
		case errors.As(err, &unavailable):
			p.logger.Warn("gateway unavailable, order deferred to next poll",
				slog.String("order_code", order.OrderCode), slog.String("status", unavailable.Status))
		default:
			p.logger.Error("sync order failed",
				slog.String("order_code", order.OrderCode), slog.String("error", err.Error()))
		}
		return
	}

	if result.Synced() {
		p.logger.Info("order reconciled by poller",
			slog.String("order_code", order.OrderCode),
			slog.String("from", string(result.DBStatus)),
			slog.String("to", string(result.MappedStatus)),
		)
	}
}
