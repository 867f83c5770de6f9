// Package db provides the optional Postgres mirror of the flat files: a
// pgxpool-based connection pool with schema setup, prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/shotmap/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
	origin string
	logger *slog.Logger
}

// New ensures the mirror tables exist, then creates and validates a
// connection pool.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	if err := ensureSchema(ctx, poolCfg.ConnConfig); err != nil {
		return nil, err
	}

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = registerPreparedStatements

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool, origin: processOrigin(), logger: logger}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// ensureSchema creates the mirror tables over a one-off connection, before
// the pool prepares statements against them.
func ensureSchema(ctx context.Context, connCfg *pgx.ConnConfig) error {
	conn, err := pgx.ConnectConfig(ctx, connCfg.Copy())
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

var schema = `
CREATE TABLE IF NOT EXISTS ` + config.MatchesTable + ` (
	id            TEXT PRIMARY KEY,
	season        TEXT NOT NULL,
	is_result     BOOLEAN NOT NULL,
	side          TEXT,
	h_id          TEXT,
	h_title       TEXT NOT NULL,
	h_short_title TEXT,
	a_id          TEXT,
	a_title       TEXT NOT NULL,
	a_short_title TEXT,
	h_goals       INTEGER NOT NULL DEFAULT 0,
	a_goals       INTEGER NOT NULL DEFAULT 0,
	h_xg          DOUBLE PRECISION NOT NULL DEFAULT 0,
	a_xg          DOUBLE PRECISION NOT NULL DEFAULT 0,
	kickoff       TEXT,
	forecast_w    DOUBLE PRECISION,
	forecast_d    DOUBLE PRECISION,
	forecast_l    DOUBLE PRECISION,
	result        TEXT,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ` + config.ShotsTable + ` (
	id              TEXT PRIMARY KEY,
	season          TEXT NOT NULL,
	match_id        TEXT NOT NULL,
	minute          INTEGER NOT NULL,
	result          TEXT NOT NULL,
	x               DOUBLE PRECISION NOT NULL,
	y               DOUBLE PRECISION NOT NULL,
	xg              DOUBLE PRECISION NOT NULL DEFAULT 0,
	player          TEXT NOT NULL,
	player_id       TEXT,
	h_a             TEXT NOT NULL,
	situation       TEXT,
	shot_type       TEXT,
	last_action     TEXT,
	player_assisted TEXT,
	h_team          TEXT NOT NULL,
	a_team          TEXT NOT NULL,
	h_goals         INTEGER NOT NULL DEFAULT 0,
	a_goals         INTEGER NOT NULL DEFAULT 0,
	match_date      TEXT,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS shots_season_idx ON ` + config.ShotsTable + ` (season);
`

// registerPreparedStatements registers every statement the mirror uses.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Shots: a re-fetch replaces the whole season
		"delete_season_shots": "DELETE FROM " + config.ShotsTable + " WHERE season = $1",
		"count_season_shots":  "SELECT COUNT(*) FROM " + config.ShotsTable + " WHERE season = $1",

		// Delivered to listeners when the surrounding transaction commits
		"notify": "SELECT pg_notify($1, $2)",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
