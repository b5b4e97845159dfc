// Package opportunity defines the result records produced by the
// content-opportunity detectors.
package opportunity

import (
	"math"

	"github.com/kailas-cloud/searchscope/internal/domain/cluster"
)

// Type identifies which detector produced a record.
type Type string

const (
	// TypeQuickWin marks keywords close to page 1 with high visibility.
	TypeQuickWin Type = "quick_win"
	// TypeCTROptimization marks well-ranking keywords with underperforming CTR.
	TypeCTROptimization Type = "ctr_optimization"
	// TypeExpandContent marks pages ranking for many keywords.
	TypeExpandContent Type = "expand_content"
	// TypeContentGap marks keyword clusters lacking a dedicated page.
	TypeContentGap Type = "content_gap"
	// TypeDeclining marks keywords losing clicks period over period.
	TypeDeclining Type = "declining"
)

// Priority is the categorical urgency of an opportunity.
type Priority string

const (
	// PriorityHigh marks the most urgent opportunities.
	PriorityHigh Priority = "high"
	// PriorityMedium marks moderately urgent opportunities.
	PriorityMedium Priority = "medium"
	// PriorityLow marks the least urgent opportunities.
	PriorityLow Priority = "low"
)

// QuickWin is a keyword ranking just off page 1 with enough impressions
// to reward a ranking push. CTR is a percentage, rounded to 2 decimals;
// Position is rounded to 1 decimal.
type QuickWin struct {
	Query           string
	Page            string
	Position        float64
	Impressions     int64
	Clicks          int64
	CTR             float64
	PriorityScore   float64
	PotentialClicks int64
	ClickUplift     int64
}

// CTROpportunity is a keyword ranking in the top results but collecting
// fewer clicks than its position should yield. CTR, ExpectedCTR and
// CTRGap are percentages rounded to 2 decimals.
type CTROpportunity struct {
	Query           string
	Page            string
	Position        float64
	Impressions     int64
	Clicks          int64
	CTR             float64
	ExpectedCTR     float64
	CTRGap          float64
	PotentialClicks int64
	ClickUplift     int64
	Priority        Priority
}

// KeywordDetail is one keyword contributing to a page expansion candidate.
type KeywordDetail struct {
	Query       string
	Impressions int64
	Clicks      int64
	Position    float64
}

// PageExpansion is a page ranking for many distinct keywords, a candidate
// for content expansion. AvgPosition is the unweighted arithmetic mean of
// the member positions: it measures topical spread, not traffic-weighted
// rank.
type PageExpansion struct {
	Page             string
	KeywordCount     int
	TotalClicks      int64
	TotalImpressions int64
	AvgPosition      float64
	TopKeywords      []KeywordDetail
	Priority         Priority
}

// ContentGap is a cluster of related, poorly-ranking queries with no
// dedicated page.
type ContentGap struct {
	ClusterName      string
	Queries          []cluster.Record
	QueryCount       int
	TotalImpressions int64
	TotalClicks      int64
	BestPosition     float64
	CurrentPages     []string
	SuggestedAction  string
	Priority         Priority
}

// DecliningKeyword is a (query, page) pair whose clicks dropped between
// two comparison windows. PositionChange is current minus previous;
// positive means the ranking got worse.
type DecliningKeyword struct {
	Query               string
	Page                string
	PreviousClicks      int64
	CurrentClicks       int64
	Decline             int64
	DeclinePercent      float64
	PreviousPosition    float64
	CurrentPosition     float64
	PositionChange      float64
	PreviousImpressions int64
	CurrentImpressions  int64
	Priority            Priority
}

// Round1 rounds to one decimal place, for positions.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places, for scores and percentages.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
