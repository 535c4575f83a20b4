package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"appdeck/internal/domain"
	"appdeck/internal/domain/models"
	"appdeck/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool *pgxpool.Pool
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{pool: config.Pool}
}

// Create persists a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := `
		INSERT INTO folders (id, user_id, name, description, color, icon, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ID,
		folder.UserID,
		folder.Name,
		folder.Description,
		folder.Color,
		folder.Icon,
		folder.DisplayOrder,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder with its app count, scoped to the owner.
// The LEFT JOIN keeps folders with zero apps in the result.
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, userID string) (*models.FolderWithCount, error) {
	query := `
		SELECT f.id, f.user_id, f.name, f.description, f.color, f.icon,
		       f.display_order, f.created_at, f.updated_at,
		       COUNT(af.app_id) AS app_count
		FROM folders f
		LEFT JOIN app_folders af ON af.folder_id = f.id
		WHERE f.id = $1 AND f.user_id = $2
		GROUP BY f.id
	`

	var folder models.FolderWithCount
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID).Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.Description,
		&folder.Color,
		&folder.Icon,
		&folder.DisplayOrder,
		&folder.CreatedAt,
		&folder.UpdatedAt,
		&folder.AppCount,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// ListByUser retrieves all of a user's folders with app counts
func (r *PostgresFolderRepository) ListByUser(ctx context.Context, userID string) ([]models.FolderWithCount, error) {
	query := `
		SELECT f.id, f.user_id, f.name, f.description, f.color, f.icon,
		       f.display_order, f.created_at, f.updated_at,
		       COUNT(af.app_id) AS app_count
		FROM folders f
		LEFT JOIN app_folders af ON af.folder_id = f.id
		WHERE f.user_id = $1
		GROUP BY f.id
		ORDER BY f.display_order DESC, f.name ASC
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.FolderWithCount
	for rows.Next() {
		var folder models.FolderWithCount
		err := rows.Scan(
			&folder.ID,
			&folder.UserID,
			&folder.Name,
			&folder.Description,
			&folder.Color,
			&folder.Icon,
			&folder.DisplayOrder,
			&folder.CreatedAt,
			&folder.UpdatedAt,
			&folder.AppCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// MaxDisplayOrder returns the highest display_order for the user, -1 when
// the user has no folders so the first folder gets order 0.
func (r *PostgresFolderRepository) MaxDisplayOrder(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COALESCE(MAX(display_order), -1)
		FROM folders
		WHERE user_id = $1
	`

	var maxOrder int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("max display order: %w", err)
	}

	return maxOrder, nil
}

// Update persists all mutable fields of a folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := `
		UPDATE folders
		SET name = $1, description = $2, color = $3, icon = $4,
		    display_order = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.Name,
		folder.Description,
		folder.Color,
		folder.Icon,
		folder.DisplayOrder,
		folder.UpdatedAt,
		folder.ID,
		folder.UserID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a folder row, scoped to the owner
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, userID string) error {
	query := `
		DELETE FROM folders
		WHERE id = $1 AND user_id = $2
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
