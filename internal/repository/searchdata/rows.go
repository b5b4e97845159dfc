package searchdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/searchscope/internal/domain"
)

// DailyRow is one raw per-date search-performance row as delivered by an
// ingestion client. Date is YYYY-MM-DD.
type DailyRow struct {
	Date        string
	Query       string
	Page        string
	Clicks      int64
	Impressions int64
	CTR         float64
	Position    float64
}

// SaveRows upserts raw daily rows for a site and returns the number of
// rows written. Re-syncing a date range overwrites the previous fetch.
func (r *Repo) SaveRows(ctx context.Context, siteURL string, rows []DailyRow) (int64, error) {
	const q = `
		INSERT INTO search_data (site_url, date, query, page, clicks, impressions, ctr, position, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (site_url, date, query, page) DO UPDATE SET
			clicks = EXCLUDED.clicks,
			impressions = EXCLUDED.impressions,
			ctr = EXCLUDED.ctr,
			position = EXCLUDED.position,
			fetched_at = NOW()`

	var saved int64
	for _, row := range rows {
		_, err := r.db.Exec(ctx, q,
			siteURL, row.Date, row.Query, row.Page,
			row.Clicks, row.Impressions, row.CTR, row.Position)
		if err != nil {
			return saved, fmt.Errorf("save row: %w", err)
		}
		saved++
	}
	return saved, nil
}

// Aggregated returns search rows for a site and date range, rolled up
// across dates. CTR and position are impression-weighted and are defined
// zeros when a group has no impressions.
func (r *Repo) Aggregated(ctx context.Context, siteURL, startDate, endDate string, groupBy domain.GroupBy) ([]domain.MetricRow, error) {
	if !groupBy.Valid() {
		return nil, fmt.Errorf("group by %q: %w", groupBy, domain.ErrInvalidGroupBy)
	}

	var q string
	if groupBy == domain.GroupByPage {
		q = `
			SELECT '' AS query, page,
				SUM(clicks) AS clicks,
				SUM(impressions) AS impressions,
				CASE WHEN SUM(impressions) > 0
					THEN SUM(clicks)::DOUBLE PRECISION / SUM(impressions)
					ELSE 0 END AS ctr,
				CASE WHEN SUM(impressions) > 0
					THEN SUM(position * impressions) / SUM(impressions)
					ELSE 0 END AS position
			FROM search_data
			WHERE site_url = $1 AND date >= $2 AND date <= $3
			GROUP BY page
			ORDER BY impressions DESC`
	} else {
		q = `
			SELECT query, page,
				SUM(clicks) AS clicks,
				SUM(impressions) AS impressions,
				CASE WHEN SUM(impressions) > 0
					THEN SUM(clicks)::DOUBLE PRECISION / SUM(impressions)
					ELSE 0 END AS ctr,
				CASE WHEN SUM(impressions) > 0
					THEN SUM(position * impressions) / SUM(impressions)
					ELSE 0 END AS position
			FROM search_data
			WHERE site_url = $1 AND date >= $2 AND date <= $3
			GROUP BY query, page
			ORDER BY impressions DESC`
	}

	rows, err := r.db.Query(ctx, q, siteURL, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("query aggregated rows: %w", err)
	}
	defer rows.Close()

	var out []domain.MetricRow
	for rows.Next() {
		var m domain.MetricRow
		if err := rows.Scan(&m.Query, &m.Page, &m.Clicks, &m.Impressions, &m.CTR, &m.Position); err != nil {
			return nil, fmt.Errorf("scan aggregated row: %w", err)
		}
		out = append(out, m.Sanitize())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregated rows: %w", err)
	}
	return out, nil
}

// Stats returns site-wide totals for a date range.
func (r *Repo) Stats(ctx context.Context, siteURL, startDate, endDate string) (domain.SiteStats, error) {
	const q = `
		SELECT
			COUNT(DISTINCT query) AS total_keywords,
			COUNT(DISTINCT page) AS total_pages,
			COALESCE(SUM(clicks), 0) AS total_clicks,
			COALESCE(SUM(impressions), 0) AS total_impressions,
			CASE WHEN COALESCE(SUM(impressions), 0) > 0
				THEN SUM(clicks)::DOUBLE PRECISION / SUM(impressions)
				ELSE 0 END AS avg_ctr,
			CASE WHEN COALESCE(SUM(impressions), 0) > 0
				THEN SUM(position * impressions) / SUM(impressions)
				ELSE 0 END AS avg_position
		FROM search_data
		WHERE site_url = $1 AND date >= $2 AND date <= $3`

	var s domain.SiteStats
	err := r.db.QueryRow(ctx, q, siteURL, startDate, endDate).Scan(
		&s.TotalKeywords, &s.TotalPages, &s.TotalClicks, &s.TotalImpressions,
		&s.AvgCTR, &s.AvgPosition)
	if err != nil {
		return domain.SiteStats{}, fmt.Errorf("query site stats: %w", err)
	}
	return s, nil
}

// DateRange returns the earliest and latest dates stored for a site.
// Returns ErrSiteNotFound when no rows exist.
func (r *Repo) DateRange(ctx context.Context, siteURL string) (string, string, error) {
	const q = `
		SELECT COALESCE(MIN(date), ''), COALESCE(MAX(date), '')
		FROM search_data
		WHERE site_url = $1`

	var start, end string
	if err := r.db.QueryRow(ctx, q, siteURL).Scan(&start, &end); err != nil {
		return "", "", fmt.Errorf("query date range: %w", err)
	}
	if start == "" {
		return "", "", fmt.Errorf("site %q: %w", siteURL, domain.ErrSiteNotFound)
	}
	return start, end, nil
}

// Historical returns a per-date time series for a site, optionally
// filtered to a single query or page.
func (r *Repo) Historical(ctx context.Context, siteURL, startDate, endDate, query, page string) ([]domain.SeriesPoint, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT date,
			SUM(clicks) AS clicks,
			SUM(impressions) AS impressions,
			CASE WHEN SUM(impressions) > 0
				THEN SUM(clicks)::DOUBLE PRECISION / SUM(impressions)
				ELSE 0 END AS ctr,
			CASE WHEN SUM(impressions) > 0
				THEN SUM(position * impressions) / SUM(impressions)
				ELSE 0 END AS position
		FROM search_data
		WHERE site_url = $1 AND date >= $2 AND date <= $3`)
	args := []interface{}{siteURL, startDate, endDate}

	if query != "" {
		args = append(args, query)
		fmt.Fprintf(&b, " AND query = $%d", len(args))
	}
	if page != "" {
		args = append(args, page)
		fmt.Fprintf(&b, " AND page = $%d", len(args))
	}
	b.WriteString(" GROUP BY date ORDER BY date ASC")

	rows, err := r.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query historical rows: %w", err)
	}
	defer rows.Close()

	var out []domain.SeriesPoint
	for rows.Next() {
		var p domain.SeriesPoint
		if err := rows.Scan(&p.Date, &p.Clicks, &p.Impressions, &p.CTR, &p.Position); err != nil {
			return nil, fmt.Errorf("scan historical row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate historical rows: %w", err)
	}
	return out, nil
}
