// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema migration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mapleleafu/water/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

const subscriptionColumns = `s.id, s.user_id, s.endpoint, s.p256dh, s.auth, s.timezone,
	s.quiet_start, s.quiet_end, s.muted_until, s.created_at, s.updated_at`

// registerPreparedStatements registers every statement the store uses.
// Statements are created after the schema exists; on a fresh database run
// `water migrate` first.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Subscribers
		"create_user":  "INSERT INTO users (id, name) VALUES ($1, $2) RETURNING id, name, created_at",
		"list_users":   "SELECT id, name, created_at FROM users ORDER BY created_at ASC",
		"find_user":    "SELECT id, name, created_at FROM users WHERE id = $1",

		// Subscriptions
		"list_subscriptions_with_owner": "SELECT " + subscriptionColumns + `, u.id, u.name, u.created_at
			FROM subscriptions s JOIN users u ON u.id = s.user_id
			ORDER BY s.created_at ASC`,
		"latest_subscription": "SELECT " + subscriptionColumns + `
			FROM subscriptions s WHERE s.user_id = $1
			ORDER BY s.created_at DESC, s.id DESC LIMIT 1`,
		"upsert_subscription": `INSERT INTO subscriptions AS s (id, user_id, endpoint, p256dh, auth, timezone)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (endpoint) DO UPDATE SET
				user_id    = excluded.user_id,
				p256dh     = excluded.p256dh,
				auth       = excluded.auth,
				timezone   = excluded.timezone,
				updated_at = NOW()
			RETURNING ` + subscriptionColumns,
		"update_owner_subscriptions": `UPDATE subscriptions SET
				quiet_start = COALESCE($2, quiet_start),
				quiet_end   = COALESCE($3, quiet_end),
				muted_until = COALESCE($4, muted_until),
				updated_at  = NOW()
			WHERE user_id = $1`,
		"delete_subscription": "DELETE FROM subscriptions WHERE id = $1",
		"clear_expired_mutes": "UPDATE subscriptions SET muted_until = NULL WHERE muted_until IS NOT NULL AND muted_until <= $1",

		// Drink logs
		"create_drink_log": "INSERT INTO drink_logs (id, user_id, amount) VALUES ($1, $2, $3) RETURNING id, user_id, amount, logged_at",
		"drink_logs_since": `SELECT id, user_id, amount, logged_at FROM drink_logs
			WHERE user_id = $1 AND logged_at >= $2 ORDER BY logged_at ASC`,
		"drink_logs_between": `SELECT id, user_id, amount, logged_at FROM drink_logs
			WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3 ORDER BY logged_at ASC`,
		"count_drink_logs": "SELECT COUNT(*) FROM drink_logs WHERE user_id = $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
