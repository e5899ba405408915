// File: internal/infrastructure/database/applet_run_postgres_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/repository"
)

type pgxAppletRunRepository struct {
	db *pgxpool.Pool
}

// NewPgxAppletRunRepository creates a new instance of pgxAppletRunRepository.
func NewPgxAppletRunRepository(db *pgxpool.Pool) repository.AppletRunRepository {
	return &pgxAppletRunRepository{db: db}
}

func (r *pgxAppletRunRepository) Create(ctx context.Context, run *models.AppletRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO applet_runs (user_id, applet_id, outcome, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		run.UserID, run.AppletID, run.Outcome, run.Message, run.CreatedAt,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("failed to create applet run entry: %w", err)
	}
	return nil
}

func (r *pgxAppletRunRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AppletRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, user_id, applet_id, outcome, message, created_at
		FROM applet_runs
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list applet runs by user: %w", err)
	}
	defer rows.Close()

	var runs []*models.AppletRun
	for rows.Next() {
		run := &models.AppletRun{}
		if err := rows.Scan(
			&run.ID, &run.UserID, &run.AppletID, &run.Outcome, &run.Message, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan applet run during list by user: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating applet runs for user: %w", err)
	}
	return runs, nil
}

var _ repository.AppletRunRepository = (*pgxAppletRunRepository)(nil)
