// Package searchscope embeds the opportunity-analysis engine as a
// library: the same detectors, keyword browser, summaries and exports
// served by the HTTP API, driven directly over PostgreSQL.
package searchscope

import (
	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/opportunity"
	"github.com/kailas-cloud/searchscope/internal/repository/searchdata"
	keywordsuc "github.com/kailas-cloud/searchscope/internal/usecase/keywords"
	opportunityuc "github.com/kailas-cloud/searchscope/internal/usecase/opportunity"
	summaryuc "github.com/kailas-cloud/searchscope/internal/usecase/summary"
)

// DateFormat is the wire format for all dates (YYYY-MM-DD).
const DateFormat = domain.DateFormat

// Metric grouping for aggregated reads.
type GroupBy = domain.GroupBy

// Grouping values.
const (
	GroupByQuery = domain.GroupByQuery
	GroupByPage  = domain.GroupByPage
)

// Core domain records.
type (
	MetricRow   = domain.MetricRow
	SiteStats   = domain.SiteStats
	SeriesPoint = domain.SeriesPoint
	Property    = domain.Property
	Snapshot    = domain.Snapshot
	SyncRecord  = domain.SyncRecord
	SyncStatus  = domain.SyncStatus
)

// Sync lifecycle states.
const (
	SyncPending    = domain.SyncPending
	SyncInProgress = domain.SyncInProgress
	SyncCompleted  = domain.SyncCompleted
	SyncFailed     = domain.SyncFailed
)

// Sentinel errors surfaced by client operations.
var (
	ErrSiteNotFound     = domain.ErrSiteNotFound
	ErrSyncNotFound     = domain.ErrSyncNotFound
	ErrInvalidDateRange = domain.ErrInvalidDateRange
	ErrInvalidGroupBy   = domain.ErrInvalidGroupBy
)

// Detector results.
type (
	QuickWin         = opportunity.QuickWin
	CTROpportunity   = opportunity.CTROpportunity
	PageExpansion    = opportunity.PageExpansion
	ContentGap       = opportunity.ContentGap
	DecliningKeyword = opportunity.DecliningKeyword
)

// Detector tuning knobs. Zero fields take the documented defaults.
type (
	QuickWinOptions   = opportunityuc.QuickWinOptions
	CTRGapOptions     = opportunityuc.CTRGapOptions
	ExpandOptions     = opportunityuc.ExpandOptions
	ContentGapOptions = opportunityuc.ContentGapOptions
	DecliningOptions  = opportunityuc.DecliningOptions
)

// Keyword browser types.
type (
	Keyword            = keywordsuc.Keyword
	KeywordListOptions = keywordsuc.ListOptions
)

// Summary and action-list types.
type (
	Summary = summaryuc.Summary
	Action  = summaryuc.Action
)

// Ingestion and cluster persistence types.
type (
	DailyRow      = searchdata.DailyRow
	StoredCluster = searchdata.StoredCluster
)
