package sites

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchscope/internal/domain"
)

// Service exposes property and site-level operations.
type Service struct {
	store  Store
	logger *zap.Logger
}

// New creates the sites service.
func New(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Stats returns site-wide totals for a date range.
func (s *Service) Stats(ctx context.Context, siteURL, startDate, endDate string) (domain.SiteStats, error) {
	return s.store.Stats(ctx, siteURL, startDate, endDate)
}

// DateRange returns the stored data bounds for a site.
func (s *Service) DateRange(ctx context.Context, siteURL string) (string, string, error) {
	return s.store.DateRange(ctx, siteURL)
}

// Historical returns a per-date metric series, optionally filtered to a
// single query or page.
func (s *Service) Historical(ctx context.Context, siteURL, startDate, endDate, query, page string) ([]domain.SeriesPoint, error) {
	return s.store.Historical(ctx, siteURL, startDate, endDate, query, page)
}

// SaveProperty registers a site.
func (s *Service) SaveProperty(ctx context.Context, siteURL, permissionLevel string) error {
	return s.store.SaveProperty(ctx, siteURL, permissionLevel)
}

// Properties lists registered sites.
func (s *Service) Properties(ctx context.Context) ([]domain.Property, error) {
	return s.store.Properties(ctx)
}

// LastSync returns the most recent completed ingestion run for a site.
func (s *Service) LastSync(ctx context.Context, siteURL string) (domain.SyncRecord, error) {
	return s.store.LastSync(ctx, siteURL)
}

// SyncHistory lists recent ingestion runs for a site.
func (s *Service) SyncHistory(ctx context.Context, siteURL string, limit int) ([]domain.SyncRecord, error) {
	return s.store.SyncHistory(ctx, siteURL, limit)
}

// Snapshots lists stored per-date rollups for a site.
func (s *Service) Snapshots(ctx context.Context, siteURL string, limit int) ([]domain.Snapshot, error) {
	return s.store.Snapshots(ctx, siteURL, limit)
}

// CaptureSnapshot computes site totals for the 30 days ending at now and
// stores them as the rollup for now's date. Repeated captures for the
// same date overwrite each other.
func (s *Service) CaptureSnapshot(ctx context.Context, siteURL string, now time.Time) (domain.Snapshot, error) {
	end := now.Format(domain.DateFormat)
	start := now.AddDate(0, 0, -30).Format(domain.DateFormat)

	stats, err := s.store.Stats(ctx, siteURL, start, end)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("compute stats: %w", err)
	}

	snap := domain.Snapshot{
		SiteURL:          siteURL,
		SnapshotDate:     end,
		TotalQueries:     stats.TotalKeywords,
		TotalClicks:      stats.TotalClicks,
		TotalImpressions: stats.TotalImpressions,
		AvgCTR:           stats.AvgCTR,
		AvgPosition:      stats.AvgPosition,
	}
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	return snap, nil
}
