// File: internal/infrastructure/database/applet_postgres_repository.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/RayanDZ04/area-rattrapage/internal/domain/errors"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/repository"
)

type pgxAppletRepository struct {
	db *pgxpool.Pool
}

// NewPgxAppletRepository creates a new instance of pgxAppletRepository.
func NewPgxAppletRepository(db *pgxpool.Pool) repository.AppletRepository {
	return &pgxAppletRepository{db: db}
}

func (r *pgxAppletRepository) ListOwnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT user_id FROM applets`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list applet owner IDs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan applet owner ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating applet owner IDs: %w", err)
	}
	return ids, nil
}

func (r *pgxAppletRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*models.Applet, error) {
	query := `
		SELECT id, user_id, name, action_provider, action_kind,
		       reaction_provider, reaction_kind, action_config, reaction_config,
		       active, last_action_marker, created_at
		FROM applets
		WHERE user_id = $1 AND active = TRUE
		ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active applets by user: %w", err)
	}
	defer rows.Close()

	var applets []*models.Applet
	for rows.Next() {
		applet := &models.Applet{}
		if err := rows.Scan(
			&applet.ID, &applet.UserID, &applet.Name,
			&applet.ActionProvider, &applet.ActionKind,
			&applet.ReactionProvider, &applet.ReactionKind,
			&applet.ActionConfig, &applet.ReactionConfig,
			&applet.Active, &applet.LastActionMarker, &applet.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan applet during list by user: %w", err)
		}
		applets = append(applets, applet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating applets for user: %w", err)
	}
	return applets, nil
}

func (r *pgxAppletRepository) UpdateMarker(ctx context.Context, appletID uuid.UUID, marker string) error {
	query := `UPDATE applets SET last_action_marker = $2 WHERE id = $1`
	commandTag, err := r.db.Exec(ctx, query, appletID, marker)
	if err != nil {
		return fmt.Errorf("failed to update applet marker: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

var _ repository.AppletRepository = (*pgxAppletRepository)(nil)
