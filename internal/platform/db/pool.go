package db

import (
	"context"
	"fmt"

	"liquitrace/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "liquitrace"

// Connect opens the signals store pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DbServer) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config for %q: %w", cfg.Name, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool for %q: %w", cfg.Name, err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping %q: %w", cfg.Name, err)
	}
	return pool, nil
}
