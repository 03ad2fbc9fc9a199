package cleanup

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Expirer drops state idle for longer than maxIdle and reports how much
type Expirer interface {
	ExpireIdle(maxIdle time.Duration) int
}

// Service periodically expires abandoned dialogues
type Service struct {
	target   Expirer
	maxIdle  time.Duration
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a new sweeper
func NewService(target Expirer, maxIdle, interval time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		target:   target,
		maxIdle:  maxIdle,
		interval: interval,
		logger:   logger.With("component", "cleanup"),
	}
}

// Start begins sweeping in the background
func (s *Service) Start(ctx context.Context) {
	if s.interval <= 0 || s.maxIdle <= 0 {
		s.logger.Info("session sweeper disabled")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-ctx.Done():
				s.logger.Info("session sweeper stopped")
				return
			}
		}
	}()

	s.logger.Info("session sweeper started", "interval", s.interval, "max_idle", s.maxIdle)
}

// Stop stops the sweeper and waits for it to exit
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Sweep runs one expiry pass
func (s *Service) Sweep() int {
	n := s.target.ExpireIdle(s.maxIdle)
	if n > 0 {
		s.logger.Info("expired idle dialogues", "count", n)
	}
	return n
}
