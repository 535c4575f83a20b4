package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// MaxFolderNameLength duplicates the server-side limit so bad names fail
// before a round trip.
const MaxFolderNameLength = 50

// Folder is a folder as returned by the API.
type Folder struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Color        *string   `json:"color,omitempty"`
	Icon         *string   `json:"icon,omitempty"`
	DisplayOrder int       `json:"display_order"`
	AppCount     int       `json:"app_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// App is an application record as returned by the API.
type App struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateFolderRequest is the payload for Create.
type CreateFolderRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// UpdateFolderRequest is the payload for Update; nil fields are unchanged.
type UpdateFolderRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Color        *string `json:"color,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

type moveAppRequest struct {
	AppID    string  `json:"appId"`
	FolderID *string `json:"folderId"`
}

// ValidateFolderName applies the same checks as the server: required and at
// most MaxFolderNameLength characters.
func ValidateFolderName(name string) error {
	if name == "" {
		return errors.New("folder name is required")
	}
	if len([]rune(name)) > MaxFolderNameLength {
		return fmt.Errorf("folder name must be at most %d characters", MaxFolderNameLength)
	}
	return nil
}

// Folders returns the folder list, fetching it on first use. Subsequent
// calls return the cached list; use Refetch after out-of-band changes.
// Mutations through this client refresh the cache themselves.
func (c *Client) Folders(ctx context.Context) ([]Folder, error) {
	c.mu.Lock()
	if c.loaded {
		cached := make([]Folder, len(c.cached))
		copy(cached, c.cached)
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	return c.Refetch(ctx)
}

// Refetch reloads the folder list from the server and replaces the cache.
func (c *Client) Refetch(ctx context.Context) ([]Folder, error) {
	var folders []Folder
	if err := c.do(ctx, http.MethodGet, "/api/folders", nil, &folders); err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}

	c.mu.Lock()
	c.cached = folders
	c.loaded = true
	c.mu.Unlock()

	result := make([]Folder, len(folders))
	copy(result, folders)
	return result, nil
}

// CreateFolder creates a folder and refreshes the cached list.
func (c *Client) CreateFolder(ctx context.Context, req CreateFolderRequest) (*Folder, error) {
	if err := ValidateFolderName(req.Name); err != nil {
		return nil, err
	}

	var folder Folder
	if err := c.do(ctx, http.MethodPost, "/api/folders", req, &folder); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	c.invalidate(ctx)
	return &folder, nil
}

// UpdateFolder applies partial updates to a folder.
func (c *Client) UpdateFolder(ctx context.Context, id string, req UpdateFolderRequest) (*Folder, error) {
	if req.Name != nil {
		if err := ValidateFolderName(*req.Name); err != nil {
			return nil, err
		}
	}

	var folder Folder
	if err := c.do(ctx, http.MethodPut, "/api/folders/"+id, req, &folder); err != nil {
		return nil, fmt.Errorf("update folder: %w", err)
	}

	c.invalidate(ctx)
	return &folder, nil
}

// DeleteFolder deletes a folder; its apps become unfiled.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/folders/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	c.invalidate(ctx)
	return nil
}

// MoveApp files an app in a folder; a nil folderID unfiles it.
func (c *Client) MoveApp(ctx context.Context, appID string, folderID *string) error {
	req := moveAppRequest{AppID: appID, FolderID: folderID}
	if err := c.do(ctx, http.MethodPost, "/api/folders/move", req, nil); err != nil {
		return fmt.Errorf("move app: %w", err)
	}

	c.invalidate(ctx)
	return nil
}

// AppsInFolder lists the caller's apps filed in a folder.
func (c *Client) AppsInFolder(ctx context.Context, folderID string) ([]App, error) {
	var apps []App
	if err := c.do(ctx, http.MethodGet, "/api/folders/"+folderID+"/apps", nil, &apps); err != nil {
		return nil, fmt.Errorf("load folder apps: %w", err)
	}
	return apps, nil
}

// invalidate refreshes the cached list after a mutation. A refresh failure
// just drops the cache; the next Folders call will retry.
func (c *Client) invalidate(ctx context.Context) {
	if _, err := c.Refetch(ctx); err != nil {
		c.mu.Lock()
		c.loaded = false
		c.cached = nil
		c.mu.Unlock()
	}
}
