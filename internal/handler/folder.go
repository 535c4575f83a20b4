package handler

import (
	"log/slog"
	"net/http"

	"appdeck/internal/domain/services"
	"appdeck/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// HealthCheck responds to load balancer probes
// GET /health
func (h *FolderHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListFolders retrieves all of the user's folders with app counts
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	folders, err := h.folderService.ListFolders(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, folders)
}

// CreateFolder creates a new folder
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErrorCode(w, http.StatusBadRequest, "invalid request body", "validation_error")
		return
	}
	req.UserID = userID

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, folder)
}

// GetFolder retrieves a folder by ID with its app count
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondErrorCode(w, http.StatusBadRequest, "folder id is required", "validation_error")
		return
	}

	folder, err := h.folderService.GetFolder(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, folder)
}

// UpdateFolder applies partial updates to a folder
// PUT /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondErrorCode(w, http.StatusBadRequest, "folder id is required", "validation_error")
		return
	}

	var req services.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErrorCode(w, http.StatusBadRequest, "invalid request body", "validation_error")
		return
	}
	req.UserID = userID

	folder, err := h.folderService.UpdateFolder(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder and its app associations
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondErrorCode(w, http.StatusBadRequest, "folder id is required", "validation_error")
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ListFolderApps lists the user's apps filed in a folder
// GET /api/folders/{id}/apps
func (h *FolderHandler) ListFolderApps(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondErrorCode(w, http.StatusBadRequest, "folder id is required", "validation_error")
		return
	}

	apps, err := h.folderService.ListAppsInFolder(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, apps)
}

// MoveApp files an app in a folder, or unfiles it when folderId is null
// POST /api/folders/move
func (h *FolderHandler) MoveApp(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req moveAppRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondErrorCode(w, http.StatusBadRequest, "invalid request body", "validation_error")
		return
	}
	if req.AppID == "" {
		httputil.RespondErrorCode(w, http.StatusBadRequest, "appId is required", "validation_error")
		return
	}

	if err := h.folderService.MoveApp(r.Context(), req.AppID, req.FolderID, userID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, map[string]bool{"moved": true})
}
