// Package db opens the PostgreSQL connection pool and owns the issue
// archive schema.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	pkgconfig "newsletter-press/internal/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PoolConfig holds the connection pool settings.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns the default pool settings. The archive sees one
// pipeline run per schedule tick plus tool reads, so the pool stays small.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// PoolConfigFromEnv reads pool overrides with validate-and-fallback
// semantics.
func PoolConfigFromEnv() PoolConfig {
	def := DefaultPoolConfig()
	positive := pkgconfig.ValidateIntRange(1, 1000)

	maxOpen := pkgconfig.Int("DB_MAX_OPEN_CONNS", def.MaxOpenConns, positive)
	maxIdle := pkgconfig.Int("DB_MAX_IDLE_CONNS", def.MaxIdleConns, positive)
	lifetime := pkgconfig.Duration("DB_CONN_MAX_LIFETIME", def.ConnMaxLifetime, pkgconfig.ValidatePositiveDuration)
	idleTime := pkgconfig.Duration("DB_CONN_MAX_IDLE_TIME", def.ConnMaxIdleTime, pkgconfig.ValidatePositiveDuration)

	for _, r := range []struct{ warnings []string }{
		{maxOpen.Warnings}, {maxIdle.Warnings}, {lifetime.Warnings}, {idleTime.Warnings},
	} {
		for _, w := range r.warnings {
			slog.Warn("db pool config fallback", slog.String("warning", w))
		}
	}

	return PoolConfig{
		MaxOpenConns:    maxOpen.Value,
		MaxIdleConns:    maxIdle.Value,
		ConnMaxLifetime: lifetime.Value,
		ConnMaxIdleTime: idleTime.Value,
	}
}

// Open connects to the database named by DATABASE_URL, applies the pool
// settings, and verifies the connection.
func Open(ctx context.Context) (*sql.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	pool, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	cfg := PoolConfigFromEnv()
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	pool.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connection pool established",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime))

	return pool, nil
}
