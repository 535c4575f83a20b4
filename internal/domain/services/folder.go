package services

import (
	"context"

	"appdeck/internal/domain/models"
)

// CreateFolderRequest carries input for folder creation. UserID comes from
// the authenticated request context, never from the body.
type CreateFolderRequest struct {
	UserID      string  `json:"-"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// UpdateFolderRequest carries partial updates; nil fields are left unchanged.
type UpdateFolderRequest struct {
	UserID       string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Color        *string `json:"color,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

// FolderService defines ownership-scoped folder operations.
type FolderService interface {
	// ListFolders returns all of the user's folders with app counts,
	// ordered by display order descending, name ascending.
	ListFolders(ctx context.Context, userID string) ([]models.FolderWithCount, error)

	// GetFolder retrieves one folder with its app count.
	GetFolder(ctx context.Context, id, userID string) (*models.FolderWithCount, error)

	// CreateFolder creates a folder, assigning the next display order.
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.FolderWithCount, error)

	// UpdateFolder applies the provided fields and refreshes updated_at.
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*models.FolderWithCount, error)

	// DeleteFolder removes the folder and all its app associations.
	DeleteFolder(ctx context.Context, id, userID string) error

	// MoveApp files the app in the given folder, or unfiles it when
	// folderID is nil. An app has at most one folder at a time.
	MoveApp(ctx context.Context, appID string, folderID *string, userID string) error

	// ListAppsInFolder returns the user's apps filed in the folder,
	// most recently updated first.
	ListAppsInFolder(ctx context.Context, folderID, userID string) ([]models.App, error)

	// GetAppFolder returns the folder id an app is filed in, or nil.
	// Not ownership-scoped; intended for trusted internal callers.
	GetAppFolder(ctx context.Context, appID string) (*string, error)
}
