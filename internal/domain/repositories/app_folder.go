package repositories

import (
	"context"

	"appdeck/internal/domain/models"
)

// AppFolderRepository manages the app-to-folder association rows.
type AppFolderRepository interface {
	// Insert creates an association between an app and a folder.
	Insert(ctx context.Context, appID, folderID string) error

	// DeleteByApp removes any association for the app. Removing a
	// nonexistent association is not an error.
	DeleteByApp(ctx context.Context, appID string) error

	// DeleteByFolder removes all associations for the folder.
	DeleteByFolder(ctx context.Context, folderID string) error

	// FolderIDForApp returns the folder id the app is filed in, or nil
	// when the app is unfiled. Deliberately not user-scoped.
	FolderIDForApp(ctx context.Context, appID string) (*string, error)

	// ListAppsInFolder returns the user's apps filed in the folder,
	// most recently updated first.
	ListAppsInFolder(ctx context.Context, folderID, userID string) ([]models.App, error)
}
