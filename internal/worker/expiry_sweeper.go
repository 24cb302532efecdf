package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/tablepay/internal/usecase"
)

// ExpiryFacade exposes the subset of application functionality required by the sweeper.
type ExpiryFacade interface {
	SweepExpired(ctx context.Context) (*usecase.ExpiryReport, error)
}

// ExpirySweeper periodically expires cash orders that outlived their
// payment deadline.
type ExpirySweeper struct {
	facade   ExpiryFacade
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewExpirySweeper constructs the sweep worker.
func NewExpirySweeper(facade ExpiryFacade, interval time.Duration, logger *slog.Logger) *ExpirySweeper {
	return &ExpirySweeper{facade: facade, interval: interval, logger: logger}
}

// Start launches the background sweep loop.
func (s *ExpirySweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop waits for the sweep loop to finish.
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *ExpirySweeper) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	report, err := s.facade.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("expiry sweep failed", slog.String("error", err.Error()))
		return
	}

	expired := 0
	for _, entry := range report.Results {
		if entry.Expired {
			expired++
		}
	}
	if report.Processed > 0 {
		s.logger.Info("expiry sweep finished",
			slog.Int("processed", report.Processed),
			slog.Int("expired", expired),
		)
	}
}
