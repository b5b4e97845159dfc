package domain

import "time"

// Property is a registered site in the analyzer.
type Property struct {
	ID              int64
	SiteURL         string
	PermissionLevel string
	AddedAt         time.Time
}

// SiteStats summarizes a site's search performance over a date range.
type SiteStats struct {
	TotalKeywords    int64
	TotalPages       int64
	TotalClicks      int64
	TotalImpressions int64
	AvgCTR           float64
	AvgPosition      float64
}

// SeriesPoint is one date of aggregated metrics for trend charts.
type SeriesPoint struct {
	Date        string
	Clicks      int64
	Impressions int64
	CTR         float64
	Position    float64
}

// Snapshot is a persisted per-date rollup used for long-term trend tracking.
type Snapshot struct {
	SiteURL          string
	SnapshotDate     string
	TotalQueries     int64
	TotalClicks      int64
	TotalImpressions int64
	AvgCTR           float64
	AvgPosition      float64
}

// SyncStatus is the lifecycle state of an ingestion run.
type SyncStatus string

const (
	// SyncPending marks a sync that has been created but not started.
	SyncPending SyncStatus = "pending"
	// SyncInProgress marks a running sync.
	SyncInProgress SyncStatus = "in_progress"
	// SyncCompleted marks a successful sync.
	SyncCompleted SyncStatus = "completed"
	// SyncFailed marks a failed sync.
	SyncFailed SyncStatus = "failed"
)

// SyncRecord tracks one ingestion run of the external search-console client.
type SyncRecord struct {
	ID           string
	SiteURL      string
	SyncType     string
	StartDate    string
	EndDate      string
	RowsFetched  int64
	Status       SyncStatus
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  time.Time
}
