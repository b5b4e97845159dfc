// Package searchdata is the Postgres repository for raw and aggregated
// search-performance data.
package searchdata

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// database is the consumer interface over pgxpool (ISP).
type database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Ping(ctx context.Context) error
}

// Repo stores and aggregates search-console rows in Postgres.
type Repo struct {
	db database
}

// New creates a search-data repository over a pgx pool.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{db: pool}
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// schema holds the DDL applied by InitSchema. Dates are stored as
// YYYY-MM-DD text so range filters compare lexicographically, matching
// the wire format everywhere else in the system.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS properties (
		id BIGSERIAL PRIMARY KEY,
		site_url TEXT UNIQUE NOT NULL,
		permission_level TEXT NOT NULL DEFAULT '',
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS search_data (
		id BIGSERIAL PRIMARY KEY,
		site_url TEXT NOT NULL,
		date TEXT NOT NULL,
		query TEXT NOT NULL,
		page TEXT NOT NULL DEFAULT '',
		clicks BIGINT NOT NULL DEFAULT 0,
		impressions BIGINT NOT NULL DEFAULT 0,
		ctr DOUBLE PRECISION NOT NULL DEFAULT 0,
		position DOUBLE PRECISION NOT NULL DEFAULT 0,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (site_url, date, query, page)
	)`,
	`CREATE TABLE IF NOT EXISTS sync_history (
		id TEXT PRIMARY KEY,
		site_url TEXT NOT NULL,
		sync_type TEXT NOT NULL,
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		rows_fetched BIGINT NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		error_message TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS keyword_clusters (
		id BIGSERIAL PRIMARY KEY,
		site_url TEXT NOT NULL,
		cluster_name TEXT NOT NULL,
		queries JSONB NOT NULL,
		total_impressions BIGINT NOT NULL DEFAULT 0,
		total_clicks BIGINT NOT NULL DEFAULT 0,
		best_position DOUBLE PRECISION NOT NULL DEFAULT 0,
		page_count BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS historical_snapshots (
		id BIGSERIAL PRIMARY KEY,
		site_url TEXT NOT NULL,
		snapshot_date TEXT NOT NULL,
		total_queries BIGINT NOT NULL DEFAULT 0,
		total_clicks BIGINT NOT NULL DEFAULT 0,
		total_impressions BIGINT NOT NULL DEFAULT 0,
		avg_ctr DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_position DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (site_url, snapshot_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_data_site ON search_data (site_url)`,
	`CREATE INDEX IF NOT EXISTS idx_search_data_site_date ON search_data (site_url, date)`,
	`CREATE INDEX IF NOT EXISTS idx_search_data_query ON search_data (query)`,
	`CREATE INDEX IF NOT EXISTS idx_search_data_page ON search_data (page)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_history_site ON sync_history (site_url)`,
}

// InitSchema creates the tables and indexes if they do not exist.
func (r *Repo) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
