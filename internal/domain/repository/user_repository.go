// File: internal/domain/repository/user_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
)

// UserRepository is the read-only view of users the engine needs.
// User creation and mutation belong to the auth surface.
type UserRepository interface {
	// FindByID retrieves a user by ID.
	// Returns domainErrors.ErrNotFound if no user exists.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
