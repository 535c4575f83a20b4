package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"appdeck/internal/config"
	"appdeck/internal/domain"
	"appdeck/internal/domain/models"
	"appdeck/internal/domain/repositories"
	"appdeck/internal/domain/services"
)

type folderService struct {
	folderRepo    repositories.FolderRepository
	appFolderRepo repositories.AppFolderRepository
	appRepo       repositories.AppRepository
	txManager     repositories.TransactionManager
	logger        *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	appFolderRepo repositories.AppFolderRepository,
	appRepo repositories.AppRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo:    folderRepo,
		appFolderRepo: appFolderRepo,
		appRepo:       appRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// ListFolders returns all of the user's folders with app counts
func (s *folderService) ListFolders(ctx context.Context, userID string) ([]models.FolderWithCount, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list folders failed", "user_id", userID, "error", err)
		return nil, err
	}

	return folders, nil
}

// GetFolder retrieves a folder with its app count
func (s *folderService) GetFolder(ctx context.Context, id, userID string) (*models.FolderWithCount, error) {
	folder, err := s.folderRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	return folder, nil
}

// CreateFolder creates a new folder. Names are not unique per user; the new
// folder gets display order max+1 so it sorts first.
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.FolderWithCount, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	maxOrder, err := s.folderRepo.MaxDisplayOrder(ctx, req.UserID)
	if err != nil {
		s.logger.Error("compute next display order failed", "user_id", req.UserID, "error", err)
		return nil, err
	}

	now := time.Now()
	folder := &models.Folder{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		Name:         req.Name,
		Description:  req.Description,
		Color:        req.Color,
		Icon:         req.Icon,
		DisplayOrder: maxOrder + 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		s.logger.Error("create folder failed", "user_id", req.UserID, "name", req.Name, "error", err)
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", folder.UserID,
		"display_order", folder.DisplayOrder,
	)

	return &models.FolderWithCount{Folder: *folder, AppCount: 0}, nil
}

// UpdateFolder applies the provided fields and refreshes updated_at.
// Ownership is checked by the read; the read-then-write pair is not
// transactional.
func (s *folderService) UpdateFolder(ctx context.Context, id string, req *services.UpdateFolderRequest) (*models.FolderWithCount, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = *req.Name
	}
	if req.Description != nil {
		folder.Description = req.Description
	}
	if req.Color != nil {
		folder.Color = req.Color
	}
	if req.Icon != nil {
		folder.Icon = req.Icon
	}
	if req.DisplayOrder != nil {
		folder.DisplayOrder = *req.DisplayOrder
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, &folder.Folder); err != nil {
		s.logger.Error("update folder failed", "folder_id", id, "user_id", req.UserID, "error", err)
		return nil, err
	}

	s.logger.Info("folder updated", "id", folder.ID, "name", folder.Name, "user_id", req.UserID)

	return folder, nil
}

// DeleteFolder removes a folder and all its app associations. The pair runs
// in one transaction so associations can never outlive their folder.
func (s *folderService) DeleteFolder(ctx context.Context, id, userID string) error {
	if _, err := s.folderRepo.GetByID(ctx, id, userID); err != nil {
		return err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.appFolderRepo.DeleteByFolder(txCtx, id); err != nil {
			return err
		}
		return s.folderRepo.Delete(txCtx, id, userID)
	})
	if err != nil {
		s.logger.Error("delete folder failed", "folder_id", id, "user_id", userID, "error", err)
		return err
	}

	s.logger.Info("folder deleted", "id", id, "user_id", userID)

	return nil
}

// MoveApp files an app in a folder, or unfiles it when folderID is nil.
// The delete-then-insert keeps the app in at most one folder. The pair is
// not transactional, so concurrent moves of the same app can briefly race;
// the unique index on (app_id, folder_id) bounds the damage to a lost move.
func (s *folderService) MoveApp(ctx context.Context, appID string, folderID *string, userID string) error {
	// The app must belong to the caller
	if _, err := s.appRepo.GetByID(ctx, appID, userID); err != nil {
		return err
	}

	if folderID == nil {
		// Unfile; idempotent when the app has no association
		if err := s.appFolderRepo.DeleteByApp(ctx, appID); err != nil {
			s.logger.Error("unfile app failed", "app_id", appID, "user_id", userID, "error", err)
			return err
		}
		s.logger.Info("app unfiled", "app_id", appID, "user_id", userID)
		return nil
	}

	// The target folder must belong to the caller too
	if _, err := s.folderRepo.GetByID(ctx, *folderID, userID); err != nil {
		return err
	}

	if err := s.appFolderRepo.DeleteByApp(ctx, appID); err != nil {
		s.logger.Error("move app failed", "app_id", appID, "user_id", userID, "error", err)
		return err
	}
	if err := s.appFolderRepo.Insert(ctx, appID, *folderID); err != nil {
		s.logger.Error("move app failed", "app_id", appID, "folder_id", *folderID, "user_id", userID, "error", err)
		return err
	}

	s.logger.Info("app moved", "app_id", appID, "folder_id", *folderID, "user_id", userID)

	return nil
}

// ListAppsInFolder returns the user's apps filed in the folder
func (s *folderService) ListAppsInFolder(ctx context.Context, folderID, userID string) ([]models.App, error) {
	if _, err := s.folderRepo.GetByID(ctx, folderID, userID); err != nil {
		return nil, err
	}

	apps, err := s.appFolderRepo.ListAppsInFolder(ctx, folderID, userID)
	if err != nil {
		s.logger.Error("list apps in folder failed", "folder_id", folderID, "user_id", userID, "error", err)
		return nil, err
	}

	return apps, nil
}

// GetAppFolder returns the folder id an app is filed in, or nil when
// unfiled. No ownership filter - trusted internal callers only.
func (s *folderService) GetAppFolder(ctx context.Context, appID string) (*string, error) {
	folderID, err := s.appFolderRepo.FolderIDForApp(ctx, appID)
	if err != nil {
		s.logger.Error("get app folder failed", "app_id", appID, "error", err)
		return nil, err
	}

	return folderID, nil
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
		),
	)
}

// validateUpdateRequest validates a folder update request
func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	rules := []*validation.FieldRules{
		validation.Field(&req.UserID, validation.Required),
	}

	// An empty name on update is rejected; absent means unchanged
	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFolderNameLength),
			),
		)
	}

	return validation.ValidateStruct(req, rules...)
}
