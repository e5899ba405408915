// File: internal/domain/repository/applet_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
)

// AppletRepository exposes the applet queries and the single mutation
// (marker advance) the engine performs. Applet CRUD lives elsewhere.
type AppletRepository interface {
	// ListOwnerIDs returns the distinct set of user IDs owning at least one
	// applet, regardless of the active flag, so reactivations are picked up
	// on the next tick.
	ListOwnerIDs(ctx context.Context) ([]uuid.UUID, error)

	// ListActiveByUser returns the user's active applets, oldest first.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*models.Applet, error)

	// UpdateMarker sets the dedup marker for one applet.
	// Returns domainErrors.ErrNotFound if the applet no longer exists.
	UpdateMarker(ctx context.Context, appletID uuid.UUID, marker string) error
}
