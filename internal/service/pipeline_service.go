// File: internal/service/pipeline_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/RayanDZ04/area-rattrapage/internal/domain/errors"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/repository"
	"github.com/RayanDZ04/area-rattrapage/internal/provider"
	"github.com/RayanDZ04/area-rattrapage/internal/utils/metrics"
)

// defaultReplyBody is substituted when a send reaction has no body configured.
const defaultReplyBody = "This is an automated message sent by your AREA applet."

// AppletPipeline runs one applet through probe, dedup, enrichment, reaction
// and audit logging. It always terminates in exactly one RunResult and
// writes exactly one AppletRun entry.
type AppletPipeline interface {
	Run(ctx context.Context, user *models.User, cred provider.Credential, applet *models.Applet) models.RunResult
}

// PipelineService is the production AppletPipeline.
type PipelineService struct {
	registry *provider.Registry
	applets  repository.AppletRepository
	runs     repository.AppletRunRepository
	logger   *zap.Logger
}

// NewPipelineService creates the execution pipeline.
func NewPipelineService(
	registry *provider.Registry,
	applets repository.AppletRepository,
	runs repository.AppletRunRepository,
	logger *zap.Logger,
) *PipelineService {
	return &PipelineService{
		registry: registry,
		applets:  applets,
		runs:     runs,
		logger:   logger,
	}
}

// Run executes the per-applet state machine:
// probe -> no event -> skipped, or
// probe -> event -> enrich -> react -> mark -> success, with any failure
// terminating in an error outcome. The dedup marker is advanced only after
// the reaction's primary call succeeded, so a transiently failing reaction
// is retried on the next tick instead of being silently dropped.
func (p *PipelineService) Run(ctx context.Context, user *models.User, cred provider.Credential, applet *models.Applet) models.RunResult {
	probe, err := p.registry.Probe(applet.ActionKind)
	if err != nil {
		return p.finish(ctx, applet, models.RunOutcomeError, err.Error())
	}
	executor, err := p.registry.Reaction(applet.ReactionKind)
	if err != nil {
		return p.finish(ctx, applet, models.RunOutcomeError, err.Error())
	}

	event, err := probe.Probe(ctx, cred, applet.ActionConfig, applet.LastActionMarker)
	if err != nil {
		return p.finish(ctx, applet, models.RunOutcomeError, ClassifyProviderError(err.Error()))
	}
	if event == nil {
		return p.finish(ctx, applet, models.RunOutcomeSkipped, "no new event")
	}

	reactionCfg, err := enrichReactionConfig(applet.ReactionKind, applet.ReactionConfig, event, user)
	if err != nil {
		// A configuration error, not a provider error: reported verbatim
		// and never retried by advancing state.
		return p.finish(ctx, applet, models.RunOutcomeError, err.Error())
	}

	if err := executor.Execute(ctx, cred, reactionCfg); err != nil {
		var ce *domainErrors.ConfigurationError
		if errors.As(err, &ce) {
			return p.finish(ctx, applet, models.RunOutcomeError, err.Error())
		}
		return p.finish(ctx, applet, models.RunOutcomeError, ClassifyProviderError(err.Error()))
	}

	// Primary call succeeded: commit the dedup marker now, before the
	// best-effort follow-up. A crash in the window between the provider
	// call and this commit duplicates the reaction on the next tick;
	// that is the documented at-least-once trade-off.
	if err := p.applets.UpdateMarker(ctx, applet.ID, event.Marker); err != nil {
		p.logger.Error("Failed to commit applet marker after successful reaction",
			zap.String("applet_id", applet.ID.String()),
			zap.String("marker", event.Marker),
			zap.Error(err),
		)
	}

	if finalizer, ok := probe.(provider.EventFinalizer); ok {
		if err := finalizer.Finalize(ctx, cred, event); err != nil {
			// Best effort: never flips the run away from success.
			p.logger.Debug("Event follow-up failed",
				zap.String("applet_id", applet.ID.String()),
				zap.Error(err),
			)
		}
	}

	return p.finish(ctx, applet, models.RunOutcomeSuccess, "reaction executed")
}

// finish writes the single audit log entry for this invocation and returns
// the matching RunResult.
func (p *PipelineService) finish(ctx context.Context, applet *models.Applet, outcome models.RunOutcome, message string) models.RunResult {
	metrics.AppletRunsTotal.WithLabelValues(string(outcome)).Inc()

	run := &models.AppletRun{
		UserID:    applet.UserID,
		AppletID:  applet.ID,
		Outcome:   outcome,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.runs.Create(ctx, run); err != nil {
		p.logger.Error("Failed to write applet run entry",
			zap.String("applet_id", applet.ID.String()),
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
	}

	return models.RunResult{
		AppletID: applet.ID,
		Outcome:  outcome,
		Message:  message,
	}
}

// enrichReactionConfig fills the gaps in a reaction config from the
// triggering event and the owning user, without mutating the applet's
// stored document. Only the send/reply kind has enrichment semantics;
// every other kind passes through unchanged.
func enrichReactionConfig(reactionKind string, cfg models.ConfigDoc, event *provider.TriggerEvent, user *models.User) (models.ConfigDoc, error) {
	if reactionKind != provider.KindGmailSendEmail {
		return cfg, nil
	}

	enriched := make(models.ConfigDoc, len(cfg)+3)
	for k, v := range cfg {
		enriched[k] = v
	}

	if _, ok := enriched.GetString("to"); !ok {
		switch {
		case event.Sender != "":
			enriched["to"] = event.Sender
		case user != nil && user.Email != "":
			enriched["to"] = user.Email
		default:
			return nil, domainErrors.NewConfigurationError("to", "no recipient configured or derivable from the trigger")
		}
	}
	if _, ok := enriched.GetString("subject"); !ok {
		if event.Subject != "" {
			enriched["subject"] = "Re: " + event.Subject
		} else {
			enriched["subject"] = "AREA notification"
		}
	}
	if _, ok := enriched.GetString("body"); !ok {
		enriched["body"] = defaultReplyBody
	}
	return enriched, nil
}

var _ AppletPipeline = (*PipelineService)(nil)
