package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 50 to fit in PostgreSQL VARCHAR(50) and keep the
	// sidebar rendering predictable. The client duplicates this check.
	MaxFolderNameLength = 50
)
