// File: internal/service/scheduler_service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/repository"
	"github.com/RayanDZ04/area-rattrapage/internal/utils/metrics"
)

// SchedulerService is the process-wide background loop: on a fixed period
// it enumerates every user owning at least one applet and runs their batch,
// isolating per-user failures so no failure ever terminates the loop.
type SchedulerService struct {
	applets  repository.AppletRepository
	runner   UserRunner
	interval time.Duration
	logger   *zap.Logger
}

// NewSchedulerService creates the scheduler. It does not start it.
func NewSchedulerService(
	applets repository.AppletRepository,
	runner UserRunner,
	interval time.Duration,
	logger *zap.Logger,
) *SchedulerService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SchedulerService{
		applets:  applets,
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the perpetual loop. It is started once at process init;
// cancelling ctx is the only way to stop it, and on process shutdown the
// loop is simply abandoned mid-sleep: every user batch is independently
// logged and resumable on the next tick.
func (s *SchedulerService) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *SchedulerService) loop(ctx context.Context) {
	s.logger.Info("Applet scheduler started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Applet scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one full pass over all applet owners. Exported so the loop and
// tests share the exact same code path.
func (s *SchedulerService) Tick(ctx context.Context) {
	ownerIDs, err := s.applets.ListOwnerIDs(ctx)
	if err != nil {
		// Catastrophic storage unavailability: skip this tick entirely.
		s.logger.Error("Failed to enumerate applet owners", zap.Error(err))
		return
	}

	for _, userID := range ownerIDs {
		s.runUserSafely(ctx, userID)
	}
	metrics.SchedulerTicksTotal.Inc()
}

// runUserSafely confines one user's failure, whether an error or a panic,
// to that user: the loop proceeds to the next owner regardless.
func (s *SchedulerService) runUserSafely(ctx context.Context, userID uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("User batch panicked",
				zap.String("user_id", userID.String()),
				zap.Any("panic", r),
			)
		}
	}()

	results, err := s.runner.RunUser(ctx, userID)
	if err != nil {
		s.logger.Error("User batch failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		metrics.UserBatchesTotal.WithLabelValues("failed").Inc()
		return
	}
	if len(results) > 0 {
		s.logger.Debug("User batch completed",
			zap.String("user_id", userID.String()),
			zap.Int("applets", len(results)),
		)
	}
}
