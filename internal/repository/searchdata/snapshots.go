package searchdata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/cluster"
)

// SaveSnapshot upserts one per-date rollup for long-term trend tracking.
func (r *Repo) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	const q = `
		INSERT INTO historical_snapshots
			(site_url, snapshot_date, total_queries, total_clicks, total_impressions, avg_ctr, avg_position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (site_url, snapshot_date) DO UPDATE SET
			total_queries = EXCLUDED.total_queries,
			total_clicks = EXCLUDED.total_clicks,
			total_impressions = EXCLUDED.total_impressions,
			avg_ctr = EXCLUDED.avg_ctr,
			avg_position = EXCLUDED.avg_position`

	_, err := r.db.Exec(ctx, q, s.SiteURL, s.SnapshotDate, s.TotalQueries,
		s.TotalClicks, s.TotalImpressions, s.AvgCTR, s.AvgPosition)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Snapshots returns stored rollups for a site, newest first.
func (r *Repo) Snapshots(ctx context.Context, siteURL string, limit int) ([]domain.Snapshot, error) {
	if limit <= 0 {
		limit = 90
	}

	const q = `
		SELECT site_url, snapshot_date, total_queries, total_clicks,
			total_impressions, avg_ctr, avg_position
		FROM historical_snapshots
		WHERE site_url = $1
		ORDER BY snapshot_date DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, q, siteURL, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []domain.Snapshot
	for rows.Next() {
		var s domain.Snapshot
		err := rows.Scan(&s.SiteURL, &s.SnapshotDate, &s.TotalQueries,
			&s.TotalClicks, &s.TotalImpressions, &s.AvgCTR, &s.AvgPosition)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// StoredCluster is a persisted keyword cluster. Queries round-trips
// through JSONB.
type StoredCluster struct {
	Name             string
	Queries          []cluster.Record
	TotalImpressions int64
	TotalClicks      int64
	BestPosition     float64
	PageCount        int64
}

// SaveClusters replaces the stored clusters for a site with the given
// set. Clusters are recomputed per analysis run, so partial updates are
// never needed.
func (r *Repo) SaveClusters(ctx context.Context, siteURL string, clusters []StoredCluster) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM keyword_clusters WHERE site_url = $1`, siteURL); err != nil {
		return fmt.Errorf("clear clusters: %w", err)
	}

	const q = `
		INSERT INTO keyword_clusters
			(site_url, cluster_name, queries, total_impressions, total_clicks, best_position, page_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	for _, c := range clusters {
		queries, err := json.Marshal(c.Queries)
		if err != nil {
			return fmt.Errorf("encode cluster queries: %w", err)
		}
		_, err = r.db.Exec(ctx, q, siteURL, c.Name, queries,
			c.TotalImpressions, c.TotalClicks, c.BestPosition, c.PageCount)
		if err != nil {
			return fmt.Errorf("save cluster: %w", err)
		}
	}
	return nil
}

// Clusters returns the stored clusters for a site, largest first.
func (r *Repo) Clusters(ctx context.Context, siteURL string) ([]StoredCluster, error) {
	const q = `
		SELECT cluster_name, queries, total_impressions, total_clicks, best_position, page_count
		FROM keyword_clusters
		WHERE site_url = $1
		ORDER BY total_impressions DESC, cluster_name ASC`

	rows, err := r.db.Query(ctx, q, siteURL)
	if err != nil {
		return nil, fmt.Errorf("query clusters: %w", err)
	}
	defer rows.Close()

	var out []StoredCluster
	for rows.Next() {
		var (
			c       StoredCluster
			queries []byte
		)
		err := rows.Scan(&c.Name, &queries, &c.TotalImpressions, &c.TotalClicks,
			&c.BestPosition, &c.PageCount)
		if err != nil {
			return nil, fmt.Errorf("scan cluster: %w", err)
		}
		if err := json.Unmarshal(queries, &c.Queries); err != nil {
			return nil, fmt.Errorf("decode cluster queries: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clusters: %w", err)
	}
	return out, nil
}
