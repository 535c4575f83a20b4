package repositories

import (
	"context"

	"appdeck/internal/domain/models"
)

// AppRepository reads app records owned by the wider platform. Only what
// the folder service needs: ownership verification.
type AppRepository interface {
	// GetByID retrieves an app scoped to its owner.
	GetByID(ctx context.Context, id, userID string) (*models.App, error)
}
