package searchdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/kailas-cloud/searchscope/internal/domain"
)

// SaveProperty registers a site, updating the permission level if it is
// already known.
func (r *Repo) SaveProperty(ctx context.Context, siteURL, permissionLevel string) error {
	const q = `
		INSERT INTO properties (site_url, permission_level)
		VALUES ($1, $2)
		ON CONFLICT (site_url) DO UPDATE SET permission_level = EXCLUDED.permission_level`

	if _, err := r.db.Exec(ctx, q, siteURL, permissionLevel); err != nil {
		return fmt.Errorf("save property: %w", err)
	}
	return nil
}

// Properties lists registered sites, newest first.
func (r *Repo) Properties(ctx context.Context) ([]domain.Property, error) {
	const q = `
		SELECT id, site_url, permission_level, added_at
		FROM properties
		ORDER BY added_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.SiteURL, &p.PermissionLevel, &p.AddedAt); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return out, nil
}

// StartSync records the beginning of an ingestion run and returns its ID.
func (r *Repo) StartSync(ctx context.Context, siteURL, syncType, startDate, endDate string) (string, error) {
	const q = `
		INSERT INTO sync_history (id, site_url, sync_type, start_date, end_date, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	id := uuid.NewString()
	_, err := r.db.Exec(ctx, q, id, siteURL, syncType, startDate, endDate, string(domain.SyncInProgress))
	if err != nil {
		return "", fmt.Errorf("start sync: %w", err)
	}
	return id, nil
}

// FinishSync marks a sync completed or failed. errMessage is stored only
// for failures.
func (r *Repo) FinishSync(ctx context.Context, id string, rowsFetched int64, status domain.SyncStatus, errMessage string) error {
	const q = `
		UPDATE sync_history
		SET rows_fetched = $2, status = $3, error_message = $4, completed_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q, id, rowsFetched, string(status), errMessage)
	if err != nil {
		return fmt.Errorf("finish sync: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sync %q: %w", id, domain.ErrSyncNotFound)
	}
	return nil
}

// LastSync returns the most recent completed sync for a site, or
// ErrSyncNotFound when the site has never synced successfully.
func (r *Repo) LastSync(ctx context.Context, siteURL string) (domain.SyncRecord, error) {
	const q = `
		SELECT id, site_url, sync_type, start_date, end_date, rows_fetched,
			status, error_message, started_at, completed_at
		FROM sync_history
		WHERE site_url = $1 AND status = $2
		ORDER BY completed_at DESC
		LIMIT 1`

	var (
		rec         domain.SyncRecord
		status      string
		completedAt sql.NullTime
	)
	err := r.db.QueryRow(ctx, q, siteURL, string(domain.SyncCompleted)).Scan(
		&rec.ID, &rec.SiteURL, &rec.SyncType, &rec.StartDate, &rec.EndDate,
		&rec.RowsFetched, &status, &rec.ErrorMessage, &rec.StartedAt, &completedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SyncRecord{}, fmt.Errorf("site %q: %w", siteURL, domain.ErrSyncNotFound)
		}
		return domain.SyncRecord{}, fmt.Errorf("query last sync: %w", err)
	}
	rec.Status = domain.SyncStatus(status)
	if completedAt.Valid {
		rec.CompletedAt = completedAt.Time
	}
	return rec, nil
}

// SyncHistory lists recent ingestion runs for a site, newest first.
func (r *Repo) SyncHistory(ctx context.Context, siteURL string, limit int) ([]domain.SyncRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	const q = `
		SELECT id, site_url, sync_type, start_date, end_date, rows_fetched,
			status, error_message, started_at, completed_at
		FROM sync_history
		WHERE site_url = $1
		ORDER BY started_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, q, siteURL, limit)
	if err != nil {
		return nil, fmt.Errorf("query sync history: %w", err)
	}
	defer rows.Close()

	var out []domain.SyncRecord
	for rows.Next() {
		var (
			rec         domain.SyncRecord
			status      string
			completedAt sql.NullTime
		)
		err := rows.Scan(&rec.ID, &rec.SiteURL, &rec.SyncType, &rec.StartDate,
			&rec.EndDate, &rec.RowsFetched, &status, &rec.ErrorMessage,
			&rec.StartedAt, &completedAt)
		if err != nil {
			return nil, fmt.Errorf("scan sync record: %w", err)
		}
		rec.Status = domain.SyncStatus(status)
		if completedAt.Valid {
			rec.CompletedAt = completedAt.Time
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync history: %w", err)
	}
	return out, nil
}
