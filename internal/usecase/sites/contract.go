// Package sites manages registered properties, site statistics, sync
// history and historical snapshots.
package sites

import (
	"context"

	"github.com/kailas-cloud/searchscope/internal/domain"
)

// Store is the persistence contract the service consumes (ISP).
type Store interface {
	Stats(ctx context.Context, siteURL, startDate, endDate string) (domain.SiteStats, error)
	DateRange(ctx context.Context, siteURL string) (string, string, error)
	Historical(ctx context.Context, siteURL, startDate, endDate, query, page string) ([]domain.SeriesPoint, error)

	SaveProperty(ctx context.Context, siteURL, permissionLevel string) error
	Properties(ctx context.Context) ([]domain.Property, error)

	LastSync(ctx context.Context, siteURL string) (domain.SyncRecord, error)
	SyncHistory(ctx context.Context, siteURL string, limit int) ([]domain.SyncRecord, error)

	SaveSnapshot(ctx context.Context, s domain.Snapshot) error
	Snapshots(ctx context.Context, siteURL string, limit int) ([]domain.Snapshot, error)
}
