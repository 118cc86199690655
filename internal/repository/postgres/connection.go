package postgres

import (
	"context"
	"fmt"
	"time"

	"order-analytics-service/internal/domain"
	"order-analytics-service/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewConnection creates a new PostgreSQL connection pool. Failure to reach
// the store is reported as a connectivity error, the only fatal error class
// of a pipeline run.
func NewConnection(ctx context.Context, connString string, log *logger.Logger) (*pgxpool.Pool, error) {
	log.Info("Connecting to PostgreSQL")

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, domain.NewConnectivityError(err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, domain.NewConnectivityError(err)
	}

	log.Info("Successfully connected to PostgreSQL")
	return pool, nil
}
