package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"appdeck/internal/config"
	"appdeck/internal/domain/services"
	"appdeck/internal/repository/postgres"
	"appdeck/internal/service"
)

// Seeds a demo user with a handful of apps and folders for local
// development. The users and apps tables belong to the wider platform; in
// dev they are created here when missing so the folder schema has something
// to reference.
func main() {
	clearData := flag.Bool("clear-data", false, "Clear all folders and associations (keep schema)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// SAFETY: never run destructive operations in production
	if cfg.Environment == "prod" && *clearData {
		log.Fatalf("BLOCKED: cannot run --clear-data in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := ensurePlatformTables(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure platform tables: %v", err)
	}

	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *clearData {
		if _, err := pool.Exec(ctx, `DELETE FROM app_folders`); err != nil {
			log.Fatalf("Failed to clear associations: %v", err)
		}
		if _, err := pool.Exec(ctx, `DELETE FROM folders`); err != nil {
			log.Fatalf("Failed to clear folders: %v", err)
		}
		logger.Info("data cleared")
		return
	}

	userID, appIDs, err := seedUserAndApps(ctx, pool)
	if err != nil {
		log.Fatalf("Failed to seed user and apps: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool}
	folderService := service.NewFolderService(
		postgres.NewFolderRepository(repoConfig),
		postgres.NewAppFolderRepository(repoConfig),
		postgres.NewAppRepository(repoConfig),
		postgres.NewTransactionManager(pool),
		logger,
	)

	blue := "#3b82f6"
	green := "#22c55e"
	work, err := folderService.CreateFolder(ctx, &services.CreateFolderRequest{
		UserID: userID,
		Name:   "Work",
		Color:  &blue,
	})
	if err != nil {
		log.Fatalf("Failed to create folder: %v", err)
	}

	if _, err := folderService.CreateFolder(ctx, &services.CreateFolderRequest{
		UserID: userID,
		Name:   "Experiments",
		Color:  &green,
	}); err != nil {
		log.Fatalf("Failed to create folder: %v", err)
	}

	for _, appID := range appIDs[:2] {
		if err := folderService.MoveApp(ctx, appID, &work.ID, userID); err != nil {
			log.Fatalf("Failed to file app: %v", err)
		}
	}

	logger.Info("seed complete", "user_id", userID, "apps", len(appIDs))
}

// ensurePlatformTables creates dev stand-ins for the platform-owned users
// and apps tables.
func ensurePlatformTables(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			email      TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS apps (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			description TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	return nil
}

// seedUserAndApps inserts the demo user and three demo apps.
func seedUserAndApps(ctx context.Context, pool *pgxpool.Pool) (string, []string, error) {
	userID := uuid.NewString()
	if _, err := pool.Exec(ctx,
		`INSERT INTO users (id, email) VALUES ($1, $2)`,
		userID, fmt.Sprintf("demo+%s@example.com", userID[:8]),
	); err != nil {
		return "", nil, fmt.Errorf("insert user: %w", err)
	}

	names := []string{"Todo Tracker", "Recipe Box", "Budget Planner"}
	appIDs := make([]string, 0, len(names))
	now := time.Now()
	for i, name := range names {
		appID := uuid.NewString()
		// Stagger updated_at so folder listings have a stable order
		updated := now.Add(time.Duration(-i) * time.Minute)
		if _, err := pool.Exec(ctx,
			`INSERT INTO apps (id, user_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			appID, userID, name, updated, updated,
		); err != nil {
			return "", nil, fmt.Errorf("insert app: %w", err)
		}
		appIDs = append(appIDs, appID)
	}

	return userID, appIDs, nil
}
