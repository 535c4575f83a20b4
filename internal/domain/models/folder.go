package models

import (
	"time"
)

// Folder is a user-scoped named container for apps. Display order is unique
// per user by convention only; listings break ties by name.
type Folder struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Color        *string   `json:"color,omitempty" db:"color"` // Hex string, format deliberately unvalidated
	Icon         *string   `json:"icon,omitempty" db:"icon"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// FolderWithCount enriches a folder with its app count, computed at read
// time - never stored.
type FolderWithCount struct {
	Folder
	AppCount int `json:"app_count"`
}

// AppFolder links one app to at most one folder. The single-folder invariant
// is enforced by delete-before-insert in the service, not by a database
// constraint; (app_id, folder_id) uniqueness is enforced by an index.
type AppFolder struct {
	ID        string    `json:"id" db:"id"`
	AppID     string    `json:"app_id" db:"app_id"`
	FolderID  string    `json:"folder_id" db:"folder_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
