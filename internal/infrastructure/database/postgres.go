package database

import (
	"context"
	"fmt"
	"time"

	"invitation-backend/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const (
	connectTimeout = 5 * time.Second
	maxRetries     = 5
	retryBaseDelay = time.Second
)

// PostgresDB wraps the pgx connection pool used as the invitation
// document store.
type PostgresDB struct {
	Pool   *pgxpool.Pool
	Config config.DatabaseConfig
}

func NewPostgresDB(cfg config.DatabaseConfig) *PostgresDB {
	return &PostgresDB{Config: cfg}
}

func (db *PostgresDB) connString() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		db.Config.User,
		db.Config.Password,
		db.Config.Host,
		db.Config.Port,
		db.Config.Database,
		db.Config.SSLMode,
	)
}

// Connect establishes the pool, retrying with exponential backoff so the
// service survives a database that is still starting up.
func (db *PostgresDB) Connect(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(db.connString())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}
	poolCfg.MaxConns = int32(db.Config.MaxConns)
	poolCfg.MinConns = int32(db.Config.MinConns)
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
		cancel()

		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr != nil {
				pool.Close()
				err = pingErr
			} else {
				log.Info().Int("attempt", attempt).Msg("postgres connected")
				db.Pool = pool
				return nil
			}
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("postgres connection failed")

		if attempt < maxRetries {
			delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, lastErr)
}

// HealthCheck verifies database connectivity; called by the health endpoint.
func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(healthCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
