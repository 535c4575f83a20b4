package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"appdeck/internal/domain/repositories"
)

// RepositoryConfig holds shared dependencies for repository implementations.
type RepositoryConfig struct {
	Pool *pgxpool.Pool
}

// CreateConnectionPool creates a pgx connection pool and verifies
// connectivity with a bounded retry, so a server racing its database on
// startup does not crash-loop.
//
// PgBouncer in transaction pooling mode (port 6543 on Supabase) does not
// support prepared statements. When that port is detected and the user has
// not set an explicit query exec mode, switch to QueryExecModeCacheDescribe,
// which caches statement descriptions rather than prepared statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Verify connectivity; retry briefly in case the database is still
	// coming up alongside the server.
	ping := func() (struct{}, error) {
		return struct{}{}, pool.Ping(ctx)
	}
	if _, err := backoff.Retry(ctx, ping,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(15*time.Second),
	); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction;
// otherwise the pool. This lets repositories participate in transactions
// transparently.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
