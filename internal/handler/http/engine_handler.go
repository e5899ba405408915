// File: internal/handler/http/engine_handler.go
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/repository"
	"github.com/RayanDZ04/area-rattrapage/internal/service"
	"github.com/RayanDZ04/area-rattrapage/internal/utils/metrics"
)

// EngineHandler exposes the engine's on-demand surface: the manual
// "run applets for this user now" trigger and the audit trail listing.
type EngineHandler struct {
	runner          service.UserRunner
	runs            repository.AppletRunRepository
	runHistoryLimit int
	logger          *zap.Logger
}

// NewEngineHandler creates the engine HTTP handler.
func NewEngineHandler(runner service.UserRunner, runs repository.AppletRunRepository, runHistoryLimit int, logger *zap.Logger) *EngineHandler {
	if runHistoryLimit <= 0 {
		runHistoryLimit = 50
	}
	return &EngineHandler{
		runner:          runner,
		runs:            runs,
		runHistoryLimit: runHistoryLimit,
		logger:          logger,
	}
}

// RunNow executes the user's applets synchronously and returns the same
// per-applet result shape the periodic path produces.
// POST /api/v1/users/:user_id/run
func (h *EngineHandler) RunNow(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
		return
	}

	metrics.ManualRunsTotal.Inc()
	results, err := h.runner.RunUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Manual run failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "run_failed", "failed to run applets")
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ListRuns returns the user's most recent audit log entries, newest first.
// GET /api/v1/users/:user_id/runs?limit=N
func (h *EngineHandler) ListRuns(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
		return
	}

	limit := h.runHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	runs, err := h.runs.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Failed to list applet runs",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "list_failed", "failed to list applet runs")
		return
	}
	if runs == nil {
		runs = []*models.AppletRun{}
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
