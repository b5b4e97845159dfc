package chi

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchscope/internal/domain"
	exportuc "github.com/kailas-cloud/searchscope/internal/usecase/export"
	healthuc "github.com/kailas-cloud/searchscope/internal/usecase/health"
	keywordsuc "github.com/kailas-cloud/searchscope/internal/usecase/keywords"
	opportunityuc "github.com/kailas-cloud/searchscope/internal/usecase/opportunity"
	sitesuc "github.com/kailas-cloud/searchscope/internal/usecase/sites"
	summaryuc "github.com/kailas-cloud/searchscope/internal/usecase/summary"
)

// fixedNow anchors every date window computed by the test server.
var fixedNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

type aggCall struct {
	siteURL   string
	startDate string
	endDate   string
	groupBy   domain.GroupBy
}

// stubSource satisfies both the detector and keyword-browser source
// contracts. rowsFn, when set, routes by the requested window.
type stubSource struct {
	rows   []domain.MetricRow
	rowsFn func(startDate, endDate string) []domain.MetricRow
	err    error
	calls  []aggCall
}

func (s *stubSource) Aggregated(_ context.Context, siteURL, startDate, endDate string, groupBy domain.GroupBy) ([]domain.MetricRow, error) {
	s.calls = append(s.calls, aggCall{siteURL: siteURL, startDate: startDate, endDate: endDate, groupBy: groupBy})
	if s.err != nil {
		return nil, s.err
	}
	if s.rowsFn != nil {
		return s.rowsFn(startDate, endDate), nil
	}
	return s.rows, nil
}

var errBoom = errors.New("boom")

type stubStore struct {
	statsFn       func(ctx context.Context, siteURL, startDate, endDate string) (domain.SiteStats, error)
	dateRangeFn   func(ctx context.Context, siteURL string) (string, string, error)
	historicalFn  func(ctx context.Context, siteURL, startDate, endDate, query, page string) ([]domain.SeriesPoint, error)
	lastSyncFn    func(ctx context.Context, siteURL string) (domain.SyncRecord, error)
	syncHistoryFn func(ctx context.Context, siteURL string, limit int) ([]domain.SyncRecord, error)
	snapshotsFn   func(ctx context.Context, siteURL string, limit int) ([]domain.Snapshot, error)

	properties []domain.Property
	saved      []domain.Property
	snapshots  []domain.Snapshot
}

func (s *stubStore) Stats(ctx context.Context, siteURL, startDate, endDate string) (domain.SiteStats, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx, siteURL, startDate, endDate)
	}
	return domain.SiteStats{}, nil
}

func (s *stubStore) DateRange(ctx context.Context, siteURL string) (string, string, error) {
	if s.dateRangeFn != nil {
		return s.dateRangeFn(ctx, siteURL)
	}
	return "", "", domain.ErrSiteNotFound
}

func (s *stubStore) Historical(ctx context.Context, siteURL, startDate, endDate, query, page string) ([]domain.SeriesPoint, error) {
	if s.historicalFn != nil {
		return s.historicalFn(ctx, siteURL, startDate, endDate, query, page)
	}
	return nil, nil
}

func (s *stubStore) SaveProperty(_ context.Context, siteURL, permissionLevel string) error {
	s.saved = append(s.saved, domain.Property{SiteURL: siteURL, PermissionLevel: permissionLevel})
	return nil
}

func (s *stubStore) Properties(context.Context) ([]domain.Property, error) {
	return s.properties, nil
}

func (s *stubStore) LastSync(ctx context.Context, siteURL string) (domain.SyncRecord, error) {
	if s.lastSyncFn != nil {
		return s.lastSyncFn(ctx, siteURL)
	}
	return domain.SyncRecord{}, domain.ErrSyncNotFound
}

func (s *stubStore) SyncHistory(ctx context.Context, siteURL string, limit int) ([]domain.SyncRecord, error) {
	if s.syncHistoryFn != nil {
		return s.syncHistoryFn(ctx, siteURL, limit)
	}
	return nil, nil
}

func (s *stubStore) SaveSnapshot(_ context.Context, snap domain.Snapshot) error {
	s.snapshots = append(s.snapshots, snap)
	return nil
}

func (s *stubStore) Snapshots(ctx context.Context, siteURL string, limit int) ([]domain.Snapshot, error) {
	if s.snapshotsFn != nil {
		return s.snapshotsFn(ctx, siteURL, limit)
	}
	return s.snapshots, nil
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(context.Context) error { return p.err }

// newTestServer wires the full service stack over the stubs with a
// pinned clock and a 90-day default window.
func newTestServer(src *stubSource, store *stubStore, db, cache *stubPinger) *Server {
	logger := zap.NewNop()

	detectors := opportunityuc.New(src, logger, nil)

	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	if db == nil {
		db = &stubPinger{}
	}

	srv := NewServer(
		detectors,
		keywordsuc.New(src, logger),
		summaryuc.New(detectors, logger),
		exportuc.New(detectors, logger),
		sitesuc.New(store, logger),
		healthuc.New(db, cachePinger),
		logger,
		90,
	)
	srv.now = func() time.Time { return fixedNow }
	return srv
}
