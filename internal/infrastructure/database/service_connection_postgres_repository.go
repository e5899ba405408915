// File: internal/infrastructure/database/service_connection_postgres_repository.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/RayanDZ04/area-rattrapage/internal/domain/errors"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/repository"
)

type pgxServiceConnectionRepository struct {
	db *pgxpool.Pool
}

// NewPgxServiceConnectionRepository creates a new instance of pgxServiceConnectionRepository.
func NewPgxServiceConnectionRepository(db *pgxpool.Pool) repository.ServiceConnectionRepository {
	return &pgxServiceConnectionRepository{db: db}
}

// FindCurrent treats the most recently created row per (user, provider) as
// the current grant. Older rows are kept but never consulted.
func (r *pgxServiceConnectionRepository) FindCurrent(ctx context.Context, userID uuid.UUID, provider string) (*models.ServiceConnection, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, issued_at, created_at
		FROM service_connections
		WHERE user_id = $1 AND provider = $2
		ORDER BY created_at DESC
		LIMIT 1`
	conn := &models.ServiceConnection{}
	err := r.db.QueryRow(ctx, query, userID, provider).Scan(
		&conn.ID, &conn.UserID, &conn.Provider,
		&conn.AccessToken, &conn.RefreshToken, &conn.IssuedAt, &conn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find current service connection: %w", err)
	}
	return conn, nil
}

func (r *pgxServiceConnectionRepository) UpdateAccessToken(ctx context.Context, id uuid.UUID, accessToken string, issuedAt time.Time) error {
	query := `
		UPDATE service_connections SET
			access_token = $2, issued_at = $3
		WHERE id = $1`
	commandTag, err := r.db.Exec(ctx, query, id, accessToken, issuedAt)
	if err != nil {
		return fmt.Errorf("failed to update service connection access token: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

var _ repository.ServiceConnectionRepository = (*pgxServiceConnectionRepository)(nil)
