package repositories

import (
	"context"

	"appdeck/internal/domain/models"
)

// FolderRepository defines folder persistence operations. Every read and
// write is scoped to the owning user; a missing row and a row owned by a
// different user are indistinguishable (both ErrNotFound).
type FolderRepository interface {
	// Create persists a new folder with its pre-assigned id and order.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves one folder with its computed app count.
	GetByID(ctx context.Context, id, userID string) (*models.FolderWithCount, error)

	// ListByUser retrieves all of a user's folders with app counts,
	// ordered by display_order descending then name ascending.
	ListByUser(ctx context.Context, userID string) ([]models.FolderWithCount, error)

	// MaxDisplayOrder returns the highest display_order among the user's
	// folders, or -1 when the user has none.
	MaxDisplayOrder(ctx context.Context, userID string) (int, error)

	// Update persists all mutable fields of the folder.
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes the folder row. Associations must be removed first.
	Delete(ctx context.Context, id, userID string) error
}
