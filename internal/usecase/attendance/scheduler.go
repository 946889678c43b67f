package attendance

import (
	"context"
	"sync"
	"time"

	"hrflow-backend/pkg/log"
)

type syncer interface {
	SyncAll(ctx context.Context) ([]DeviceResult, error)
}

// SyncScheduler polls every device on a fixed interval. The first pass runs
// as soon as it starts.
type SyncScheduler struct {
	sync     syncer
	interval time.Duration
	logger   log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSyncScheduler(s syncer, interval time.Duration, l log.Logger) *SyncScheduler {
	return &SyncScheduler{sync: s, interval: interval, logger: l}
}

// Start is a no-op when the interval is not positive or it already runs.
func (s *SyncScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.interval <= 0 || s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info(ctx, "device sync scheduler started", "interval", s.interval.String())
}

// Stop cancels the loop and waits for an in-flight pass to end.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
}

func (s *SyncScheduler) run(ctx context.Context) {
	defer s.wg.Done()
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.pass(ctx)
	for {
		select {
		case <-t.C:
			s.pass(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SyncScheduler) pass(ctx context.Context) {
	results, err := s.sync.SyncAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "scheduled device sync failed", "error", err)
		return
	}
	added, failed := 0, 0
	for _, r := range results {
		added += r.Result.Added
		failed += len(r.Result.Errors)
	}
	s.logger.Info(ctx, "scheduled device sync done", "devices", len(results), "added", added, "errors", failed)
}
