package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"appdeck/internal/domain"
	"appdeck/internal/domain/models"
	"appdeck/internal/domain/repositories"
)

// PostgresAppRepository implements the AppRepository interface
type PostgresAppRepository struct {
	pool *pgxpool.Pool
}

// NewAppRepository creates a new app repository
func NewAppRepository(config *RepositoryConfig) repositories.AppRepository {
	return &PostgresAppRepository{pool: config.Pool}
}

// GetByID retrieves an app scoped to its owner
func (r *PostgresAppRepository) GetByID(ctx context.Context, id, userID string) (*models.App, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM apps
		WHERE id = $1 AND user_id = $2
	`

	var app models.App
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID).Scan(
		&app.ID,
		&app.UserID,
		&app.Name,
		&app.Description,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("app %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get app: %w", err)
	}

	return &app, nil
}
