// File: internal/domain/repository/service_connection_repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
)

// ServiceConnectionRepository stores per-user OAuth grants.
type ServiceConnectionRepository interface {
	// FindCurrent retrieves the most recently created connection for
	// (user, provider). Returns domainErrors.ErrNotFound if none exists.
	FindCurrent(ctx context.Context, userID uuid.UUID, provider string) (*models.ServiceConnection, error)

	// UpdateAccessToken rewrites the access token and issued-at timestamp
	// of one connection as a single durable update.
	UpdateAccessToken(ctx context.Context, id uuid.UUID, accessToken string, issuedAt time.Time) error
}
