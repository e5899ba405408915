// File: internal/domain/repository/applet_run_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
)

// AppletRunRepository appends to and reads the immutable audit trail.
type AppletRunRepository interface {
	// Create inserts one audit log entry. Committed immediately, never
	// batched, so a crash mid-batch loses at most the in-flight applet.
	Create(ctx context.Context, run *models.AppletRun) error

	// ListByUser returns the user's most recent entries, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AppletRun, error)
}
