package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"go.uber.org/zap"
)

const defaultExpirerInterval = 1 * time.Hour

// ExpirerService prunes stored solutions older than the retention window.
type ExpirerService struct {
	solutionStore domain.SolutionStore
	retention     time.Duration
	logger        *zap.Logger
	now           func() time.Time

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewExpirerService(ss domain.SolutionStore, retention time.Duration, logger *zap.Logger) *ExpirerService {
	return &ExpirerService{
		solutionStore: ss,
		retention:     retention,
		logger:        logger,
		now:           time.Now,
		interval:      defaultExpirerInterval,
		stopCh:        make(chan struct{}),
	}
}

func (s *ExpirerService) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// Start runs the expirer on a periodic schedule in a background goroutine.
func (s *ExpirerService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("solution expirer started",
			zap.Duration("interval", s.interval),
			zap.Duration("retention", s.retention))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				_, _ = s.RunOnce(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("solution expirer stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the expirer.
func (s *ExpirerService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// RunOnce deletes every solution created before now minus the retention
// window. A non-positive retention keeps everything.
func (s *ExpirerService) RunOnce(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.retention).UTC()
	deleted, err := s.solutionStore.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to delete expired solutions", zap.Error(err))
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("deleted expired solutions",
			zap.Int64("count", deleted),
			zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}
