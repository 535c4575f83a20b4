package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	SupabaseURL string
	JWKSURL     string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins string
	LogDir      string // Empty = log to stdout only
	AutoMigrate bool
	// Debug flags
	Debug bool
}

// fileConfig mirrors the optional YAML overlay file. Pointer fields so an
// absent key leaves the environment-derived value untouched.
type fileConfig struct {
	Port        *string `yaml:"port"`
	DatabaseURL *string `yaml:"database_url"`
	CORSOrigins *string `yaml:"cors_origins"`
	LogDir      *string `yaml:"log_dir"`
	AutoMigrate *bool   `yaml:"auto_migrate"`
}

func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := getEnv("SUPABASE_URL", "")

	// Construct JWKS URL from Supabase URL
	jwksURL := supabaseURL + "/auth/v1/.well-known/jwks.json"

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SupabaseURL: supabaseURL,
		JWKSURL:     jwksURL,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogDir:      getEnv("LOG_DIR", ""),
		AutoMigrate: getEnv("AUTO_MIGRATE", "true") == "true",
		// Debug defaults to true outside production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}

	if err := applyFileOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFileOverrides merges an optional YAML config file over the
// environment-derived values. The file path comes from CONFIG_FILE, falling
// back to ./appdeck.yaml when that file exists.
func applyFileOverrides(cfg *Config) error {
	path := os.Getenv("CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = "appdeck.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		if os.IsNotExist(err) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var overlay fileConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if overlay.Port != nil {
		cfg.Port = *overlay.Port
	}
	if overlay.DatabaseURL != nil {
		cfg.DatabaseURL = *overlay.DatabaseURL
	}
	if overlay.CORSOrigins != nil {
		cfg.CORSOrigins = *overlay.CORSOrigins
	}
	if overlay.LogDir != nil {
		cfg.LogDir = *overlay.LogDir
	}
	if overlay.AutoMigrate != nil {
		cfg.AutoMigrate = *overlay.AutoMigrate
	}

	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
