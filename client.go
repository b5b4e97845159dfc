package searchscope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchscope/internal/kv"
	kvRedis "github.com/kailas-cloud/searchscope/internal/kv/redis"
	"github.com/kailas-cloud/searchscope/internal/repository/aggcache"
	"github.com/kailas-cloud/searchscope/internal/repository/searchdata"
	exportuc "github.com/kailas-cloud/searchscope/internal/usecase/export"
	keywordsuc "github.com/kailas-cloud/searchscope/internal/usecase/keywords"
	opportunityuc "github.com/kailas-cloud/searchscope/internal/usecase/opportunity"
	sitesuc "github.com/kailas-cloud/searchscope/internal/usecase/sites"
	summaryuc "github.com/kailas-cloud/searchscope/internal/usecase/summary"
)

const (
	defaultCacheTTL         = 5 * time.Minute
	defaultReadinessTimeout = 10 * time.Second
	defaultWindowDays       = 90

	// freshnessLag keeps default windows clear of incomplete recent data.
	freshnessLag = 3
)

// Client is the searchscope SDK entry point.
type Client struct {
	pool     *pgxpool.Pool
	ownsPool bool
	cache    kv.Store

	repo        *searchdata.Repo
	detectors   *opportunityuc.Service
	keywordsSvc *keywordsuc.Service
	summarySvc  *summaryuc.Service
	exportSvc   *exportuc.Service
	sitesSvc    *sitesuc.Service

	defaultDays int
	now         func() time.Time
}

// New creates a searchscope Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		cacheTTL:    defaultCacheTTL,
		defaultDays: defaultWindowDays,
		logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.pool == nil && cfg.databaseURL == "" {
		return nil, errors.New("searchscope: database required (use WithDatabaseURL or WithPool)")
	}

	ctx := context.Background()

	pool := cfg.pool
	ownsPool := false
	if pool == nil {
		p, err := pgxpool.Connect(ctx, cfg.databaseURL)
		if err != nil {
			return nil, fmt.Errorf("searchscope: connect database: %w", err)
		}
		pool = p
		ownsPool = true
	}

	repo := searchdata.New(pool)

	var source opportunityuc.Source = repo
	var cache kv.Store
	if len(cfg.cacheAddrs) > 0 {
		store, err := kvRedis.NewStore(kvRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Username: cfg.cacheUsername,
			Password: cfg.cachePassword,
			DB:       cfg.cacheDB,
		})
		if err != nil {
			if ownsPool {
				pool.Close()
			}
			return nil, fmt.Errorf("searchscope: create cache store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			if ownsPool {
				pool.Close()
			}
			return nil, fmt.Errorf("searchscope: cache not ready: %w", err)
		}
		cache = store
		source = aggcache.New(repo, store, cfg.cacheTTL, cfg.logger, nil)
	}

	detectors := opportunityuc.New(source, cfg.logger, nil)

	return &Client{
		pool:        pool,
		ownsPool:    ownsPool,
		cache:       cache,
		repo:        repo,
		detectors:   detectors,
		keywordsSvc: keywordsuc.New(source, cfg.logger),
		summarySvc:  summaryuc.New(detectors, cfg.logger),
		exportSvc:   exportuc.New(detectors, cfg.logger),
		sitesSvc:    sitesuc.New(repo, cfg.logger),
		defaultDays: cfg.defaultDays,
		now:         time.Now,
	}, nil
}

// Close releases resources the client owns. Pools passed in via WithPool
// stay open.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.ownsPool && c.pool != nil {
		c.pool.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.repo.Ping(ctx)
}

// InitSchema creates the tables and indexes if they do not exist.
func (c *Client) InitSchema(ctx context.Context) error {
	return c.repo.InitSchema(ctx)
}

// DefaultWindow returns the analysis window the client uses when no
// explicit dates are given: defaultDays long, ending three days ago.
func (c *Client) DefaultWindow() (startDate, endDate string) {
	now := c.now()
	end := now.AddDate(0, 0, -freshnessLag)
	start := now.AddDate(0, 0, -(c.defaultDays + freshnessLag))
	return start.Format(DateFormat), end.Format(DateFormat)
}

// QuickWins finds keywords on page one or two that a content push could
// move into the top positions.
func (c *Client) QuickWins(ctx context.Context, siteURL, startDate, endDate string, opts QuickWinOptions) ([]QuickWin, error) {
	return c.detectors.QuickWins(ctx, siteURL, startDate, endDate, opts)
}

// CTROpportunities finds well-ranked keywords whose click-through rate
// lags the expectation for their position.
func (c *Client) CTROpportunities(ctx context.Context, siteURL, startDate, endDate string, opts CTRGapOptions) ([]CTROpportunity, error) {
	return c.detectors.CTROpportunities(ctx, siteURL, startDate, endDate, opts)
}

// PagesToExpand finds pages ranking for many keywords that would profit
// from deeper coverage.
func (c *Client) PagesToExpand(ctx context.Context, siteURL, startDate, endDate string, opts ExpandOptions) ([]PageExpansion, error) {
	return c.detectors.PagesToExpand(ctx, siteURL, startDate, endDate, opts)
}

// ContentGaps clusters poorly-ranked queries into topics that deserve a
// dedicated page.
func (c *Client) ContentGaps(ctx context.Context, siteURL, startDate, endDate string, opts ContentGapOptions) ([]ContentGap, error) {
	return c.detectors.ContentGaps(ctx, siteURL, startDate, endDate, opts)
}

// DecliningKeywords compares a recent window against an earlier one and
// reports keywords losing clicks.
func (c *Client) DecliningKeywords(ctx context.Context, siteURL string, opts DecliningOptions) ([]DecliningKeyword, error) {
	return c.detectors.DecliningKeywords(ctx, siteURL, opts)
}

// Keywords returns one page of the keyword browser plus the total row
// and page counts.
func (c *Client) Keywords(ctx context.Context, siteURL, startDate, endDate string, opts KeywordListOptions) ([]Keyword, int, int, error) {
	return c.keywordsSvc.List(ctx, siteURL, startDate, endDate, opts)
}

// Summary runs every detector and rolls the results up for a dashboard.
func (c *Client) Summary(ctx context.Context, siteURL, startDate, endDate string) (Summary, error) {
	return c.summarySvc.Overview(ctx, siteURL, startDate, endDate, c.now())
}

// ActionList builds the prioritized to-do list.
func (c *Client) ActionList(ctx context.Context, siteURL, startDate, endDate string) ([]Action, error) {
	return c.summarySvc.ActionList(ctx, siteURL, startDate, endDate)
}

// ExportCSV renders the selected opportunity report as CSV. reportType
// is one of "all", "quick_wins", "ctr", "expand", "gaps", "declining".
func (c *Client) ExportCSV(ctx context.Context, siteURL, startDate, endDate, reportType string) ([]byte, error) {
	return c.exportSvc.CSV(ctx, siteURL, startDate, endDate, reportType, c.now())
}

// Stats returns site-wide totals for a date range.
func (c *Client) Stats(ctx context.Context, siteURL, startDate, endDate string) (SiteStats, error) {
	return c.sitesSvc.Stats(ctx, siteURL, startDate, endDate)
}

// DateRange returns the stored data bounds for a site.
func (c *Client) DateRange(ctx context.Context, siteURL string) (string, string, error) {
	return c.sitesSvc.DateRange(ctx, siteURL)
}

// Historical returns a per-date metric series, optionally filtered to a
// single query or page.
func (c *Client) Historical(ctx context.Context, siteURL, startDate, endDate, query, page string) ([]SeriesPoint, error) {
	return c.sitesSvc.Historical(ctx, siteURL, startDate, endDate, query, page)
}

// SaveRows upserts daily search rows for a site and returns the count.
func (c *Client) SaveRows(ctx context.Context, siteURL string, rows []DailyRow) (int64, error) {
	return c.repo.SaveRows(ctx, siteURL, rows)
}

// SaveProperty registers a site.
func (c *Client) SaveProperty(ctx context.Context, siteURL, permissionLevel string) error {
	return c.sitesSvc.SaveProperty(ctx, siteURL, permissionLevel)
}

// Properties lists registered sites.
func (c *Client) Properties(ctx context.Context) ([]Property, error) {
	return c.sitesSvc.Properties(ctx)
}

// StartSync records the beginning of an ingestion run and returns its id.
func (c *Client) StartSync(ctx context.Context, siteURL, syncType, startDate, endDate string) (string, error) {
	return c.repo.StartSync(ctx, siteURL, syncType, startDate, endDate)
}

// FinishSync completes an ingestion run.
func (c *Client) FinishSync(ctx context.Context, id string, rowsFetched int64, status SyncStatus, errMessage string) error {
	return c.repo.FinishSync(ctx, id, rowsFetched, status, errMessage)
}

// LastSync returns the most recent completed ingestion run for a site.
func (c *Client) LastSync(ctx context.Context, siteURL string) (SyncRecord, error) {
	return c.sitesSvc.LastSync(ctx, siteURL)
}

// SyncHistory lists recent ingestion runs for a site.
func (c *Client) SyncHistory(ctx context.Context, siteURL string, limit int) ([]SyncRecord, error) {
	return c.sitesSvc.SyncHistory(ctx, siteURL, limit)
}

// CaptureSnapshot stores a rollup of the last 30 days under today's date.
func (c *Client) CaptureSnapshot(ctx context.Context, siteURL string) (Snapshot, error) {
	return c.sitesSvc.CaptureSnapshot(ctx, siteURL, c.now())
}

// Snapshots lists stored per-date rollups for a site, newest first.
func (c *Client) Snapshots(ctx context.Context, siteURL string, limit int) ([]Snapshot, error) {
	return c.sitesSvc.Snapshots(ctx, siteURL, limit)
}

// SaveClusters replaces the stored keyword clusters for a site.
func (c *Client) SaveClusters(ctx context.Context, siteURL string, clusters []StoredCluster) error {
	return c.repo.SaveClusters(ctx, siteURL, clusters)
}

// Clusters lists stored keyword clusters for a site.
func (c *Client) Clusters(ctx context.Context, siteURL string) ([]StoredCluster, error) {
	return c.repo.Clusters(ctx, siteURL)
}
