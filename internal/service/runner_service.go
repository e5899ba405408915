// File: internal/service/runner_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/repository"
	"github.com/RayanDZ04/area-rattrapage/internal/provider"
	"github.com/RayanDZ04/area-rattrapage/internal/utils/metrics"
)

// UserRunner executes all active applets of one user, isolating per-applet
// failures. Both the scheduler and the manual run-now endpoint go through
// this interface, so the two surfaces are indistinguishable in shape.
type UserRunner interface {
	RunUser(ctx context.Context, userID uuid.UUID) ([]models.RunResult, error)
}

// RunnerService is the production UserRunner.
type RunnerService struct {
	users       repository.UserRepository
	applets     repository.AppletRepository
	runs        repository.AppletRunRepository
	credentials CredentialProvider
	pipeline    AppletPipeline
	logger      *zap.Logger
}

// NewRunnerService creates the per-user runner.
func NewRunnerService(
	users repository.UserRepository,
	applets repository.AppletRepository,
	runs repository.AppletRunRepository,
	credentials CredentialProvider,
	pipeline AppletPipeline,
	logger *zap.Logger,
) *RunnerService {
	return &RunnerService{
		users:       users,
		applets:     applets,
		runs:        runs,
		credentials: credentials,
		pipeline:    pipeline,
		logger:      logger,
	}
}

// RunUser loads the user's active applets and credential once, then runs
// each applet through the pipeline sequentially. A returned error means the
// batch could not even begin (storage unavailability); per-applet failures
// are absorbed into the result list.
func (s *RunnerService) RunUser(ctx context.Context, userID uuid.UUID) ([]models.RunResult, error) {
	applets, err := s.applets.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load applets for user %s: %w", userID, err)
	}
	if len(applets) == 0 {
		// No credential call for users without active applets.
		return []models.RunResult{}, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		// Once the applet list is loaded the batch has begun: a user-row
		// load failure fans out per applet like a credential failure does,
		// instead of aborting with no audit trail.
		s.logger.Error("Failed to load user for batch",
			zap.String("user_id", userID.String()),
			zap.Int("applets", len(applets)),
			zap.Error(err),
		)
		metrics.UserBatchesTotal.WithLabelValues("user_error").Inc()

		results := make([]models.RunResult, 0, len(applets))
		for _, applet := range applets {
			results = append(results, s.logErrorResult(ctx, applet, msgUnknownError))
		}
		return results, nil
	}

	cred, err := s.credentials.Obtain(ctx, userID, models.ProviderGoogle)
	if err != nil {
		// One credential failure fans out to every applet: each gets an
		// error log entry, and no provider call is attempted. The refresh
		// is not retried per applet.
		message := ClassifyProviderError(err.Error())
		s.logger.Warn("Credential unavailable for user batch",
			zap.String("user_id", userID.String()),
			zap.Int("applets", len(applets)),
			zap.Error(err),
		)
		metrics.UserBatchesTotal.WithLabelValues("credential_error").Inc()

		results := make([]models.RunResult, 0, len(applets))
		for _, applet := range applets {
			results = append(results, s.logErrorResult(ctx, applet, message))
		}
		return results, nil
	}

	results := make([]models.RunResult, 0, len(applets))
	for _, applet := range applets {
		results = append(results, s.runOne(ctx, user, cred, applet))
	}
	metrics.UserBatchesTotal.WithLabelValues("ok").Inc()
	return results, nil
}

// runOne shields the batch from a panicking pipeline: the panic becomes an
// error outcome for that applet and execution proceeds to the next one.
func (s *RunnerService) runOne(ctx context.Context, user *models.User, cred provider.Credential, applet *models.Applet) (result models.RunResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Applet pipeline panicked",
				zap.String("applet_id", applet.ID.String()),
				zap.Any("panic", r),
			)
			result = s.logErrorResult(ctx, applet, fmt.Sprintf("internal error: %v", r))
		}
	}()
	return s.pipeline.Run(ctx, user, cred, applet)
}

// logErrorResult writes one error audit entry and returns the matching result.
func (s *RunnerService) logErrorResult(ctx context.Context, applet *models.Applet, message string) models.RunResult {
	metrics.AppletRunsTotal.WithLabelValues(string(models.RunOutcomeError)).Inc()
	run := &models.AppletRun{
		UserID:    applet.UserID,
		AppletID:  applet.ID,
		Outcome:   models.RunOutcomeError,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		s.logger.Error("Failed to write applet run entry",
			zap.String("applet_id", applet.ID.String()),
			zap.Error(err),
		)
	}
	return models.RunResult{AppletID: applet.ID, Outcome: models.RunOutcomeError, Message: message}
}

var _ UserRunner = (*RunnerService)(nil)
