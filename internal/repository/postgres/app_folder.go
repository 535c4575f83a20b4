package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"appdeck/internal/domain"
	"appdeck/internal/domain/models"
	"appdeck/internal/domain/repositories"
)

// PostgresAppFolderRepository implements the AppFolderRepository interface
type PostgresAppFolderRepository struct {
	pool *pgxpool.Pool
}

// NewAppFolderRepository creates a new app-folder association repository
func NewAppFolderRepository(config *RepositoryConfig) repositories.AppFolderRepository {
	return &PostgresAppFolderRepository{pool: config.Pool}
}

// Insert creates an association between an app and a folder
func (r *PostgresAppFolderRepository) Insert(ctx context.Context, appID, folderID string) error {
	query := `
		INSERT INTO app_folders (id, app_id, folder_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		uuid.NewString(),
		appID,
		folderID,
		time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("app %s already in folder %s: %w", appID, folderID, domain.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("app or folder missing: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert app folder: %w", err)
	}

	return nil
}

// DeleteByApp removes any association for the app. Deleting zero rows is
// fine - unfiling an unfiled app is idempotent.
func (r *PostgresAppFolderRepository) DeleteByApp(ctx context.Context, appID string) error {
	query := `
		DELETE FROM app_folders
		WHERE app_id = $1
	`

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, appID); err != nil {
		return fmt.Errorf("delete app folder by app: %w", err)
	}

	return nil
}

// DeleteByFolder removes all associations for the folder
func (r *PostgresAppFolderRepository) DeleteByFolder(ctx context.Context, folderID string) error {
	query := `
		DELETE FROM app_folders
		WHERE folder_id = $1
	`

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID); err != nil {
		return fmt.Errorf("delete app folders by folder: %w", err)
	}

	return nil
}

// FolderIDForApp returns the folder an app is filed in, nil when unfiled.
// Not user-scoped.
func (r *PostgresAppFolderRepository) FolderIDForApp(ctx context.Context, appID string) (*string, error) {
	query := `
		SELECT folder_id
		FROM app_folders
		WHERE app_id = $1
		LIMIT 1
	`

	var folderID string
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, appID).Scan(&folderID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil // Unfiled, not an error
		}
		return nil, fmt.Errorf("get app folder: %w", err)
	}

	return &folderID, nil
}

// ListAppsInFolder returns the user's apps filed in the folder. The inner
// join drops dangling associations; the user filter drops apps the caller
// does not own.
func (r *PostgresAppFolderRepository) ListAppsInFolder(ctx context.Context, folderID, userID string) ([]models.App, error) {
	query := `
		SELECT a.id, a.user_id, a.name, a.description, a.created_at, a.updated_at
		FROM apps a
		JOIN app_folders af ON af.app_id = a.id
		WHERE af.folder_id = $1 AND a.user_id = $2
		ORDER BY a.updated_at DESC
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, folderID, userID)
	if err != nil {
		return nil, fmt.Errorf("list apps in folder: %w", err)
	}
	defer rows.Close()

	var apps []models.App
	for rows.Next() {
		var app models.App
		err := rows.Scan(
			&app.ID,
			&app.UserID,
			&app.Name,
			&app.Description,
			&app.CreatedAt,
			&app.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan app: %w", err)
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate apps: %w", err)
	}

	return apps, nil
}
