// Package summary aggregates the opportunity detectors into dashboard
// rollups and a prioritized action list.
package summary

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchscope/internal/domain/opportunity"
	opportunityuc "github.com/kailas-cloud/searchscope/internal/usecase/opportunity"
)

// QuickWinsSummary rolls up the quick-win detector.
type QuickWinsSummary struct {
	Count           int
	TopItems        []opportunity.QuickWin
	PotentialClicks int64
}

// CTRSummary rolls up the low-CTR detector.
type CTRSummary struct {
	Count           int
	TopItems        []opportunity.CTROpportunity
	PotentialClicks int64
}

// ExpandSummary rolls up the page-expansion detector.
type ExpandSummary struct {
	Count    int
	TopItems []opportunity.PageExpansion
}

// ContentGapsSummary rolls up the content-gap detector.
type ContentGapsSummary struct {
	Count            int
	TopItems         []opportunity.ContentGap
	TotalImpressions int64
}

// DecliningSummary rolls up the declining-keyword detector.
type DecliningSummary struct {
	Count    int
	TopItems []opportunity.DecliningKeyword
	// TotalDecline is the summed click loss across the reported items.
	TotalDecline int64
}

// Summary is the dashboard overview. Counts and uplift totals cover the
// top 10 results per detector; TopItems hold the first 5.
type Summary struct {
	QuickWins          QuickWinsSummary
	CTROpportunities   CTRSummary
	PagesToExpand      ExpandSummary
	ContentGaps        ContentGapsSummary
	DecliningKeywords  DecliningSummary
	TotalOpportunities int
}

// Action is one entry in the prioritized to-do list.
type Action struct {
	Priority        int
	Type            string
	Query           string
	Page            string
	Action          string
	PotentialImpact string
	Metrics         string
}

// Service orchestrates the detectors.
type Service struct {
	detectors *opportunityuc.Service
	logger    *zap.Logger
}

// New creates the summary service over the detector service.
func New(detectors *opportunityuc.Service, logger *zap.Logger) *Service {
	return &Service{detectors: detectors, logger: logger}
}

const (
	summaryLimit = 10
	topItems     = 5
)

// Overview runs every detector capped at 10 results and rolls the
// outcomes up for the dashboard. now anchors the declining comparison
// windows.
func (s *Service) Overview(ctx context.Context, siteURL, startDate, endDate string, now time.Time) (Summary, error) {
	quickWins, err := s.detectors.QuickWins(ctx, siteURL, startDate, endDate,
		opportunityuc.QuickWinOptions{Limit: summaryLimit})
	if err != nil {
		return Summary{}, fmt.Errorf("quick wins: %w", err)
	}

	ctrOpps, err := s.detectors.CTROpportunities(ctx, siteURL, startDate, endDate,
		opportunityuc.CTRGapOptions{Limit: summaryLimit})
	if err != nil {
		return Summary{}, fmt.Errorf("ctr opportunities: %w", err)
	}

	expand, err := s.detectors.PagesToExpand(ctx, siteURL, startDate, endDate,
		opportunityuc.ExpandOptions{Limit: summaryLimit})
	if err != nil {
		return Summary{}, fmt.Errorf("pages to expand: %w", err)
	}

	gaps, err := s.detectors.ContentGaps(ctx, siteURL, startDate, endDate,
		opportunityuc.ContentGapOptions{Limit: summaryLimit})
	if err != nil {
		return Summary{}, fmt.Errorf("content gaps: %w", err)
	}

	declining, err := s.detectors.DecliningKeywords(ctx, siteURL,
		opportunityuc.DecliningOptions{Now: now, Limit: summaryLimit})
	if err != nil {
		return Summary{}, fmt.Errorf("declining keywords: %w", err)
	}

	var quickWinUplift, ctrUplift int64
	for _, w := range quickWins {
		quickWinUplift += w.ClickUplift
	}
	for _, o := range ctrOpps {
		ctrUplift += o.ClickUplift
	}

	var gapImpressions int64
	for _, g := range gaps {
		gapImpressions += g.TotalImpressions
	}

	var totalDecline int64
	for _, d := range declining {
		totalDecline += d.Decline
	}

	return Summary{
		QuickWins: QuickWinsSummary{
			Count:           len(quickWins),
			TopItems:        head(quickWins, topItems),
			PotentialClicks: quickWinUplift,
		},
		CTROpportunities: CTRSummary{
			Count:           len(ctrOpps),
			TopItems:        head(ctrOpps, topItems),
			PotentialClicks: ctrUplift,
		},
		PagesToExpand: ExpandSummary{
			Count:    len(expand),
			TopItems: head(expand, topItems),
		},
		ContentGaps: ContentGapsSummary{
			Count:            len(gaps),
			TopItems:         head(gaps, topItems),
			TotalImpressions: gapImpressions,
		},
		DecliningKeywords: DecliningSummary{
			Count:        len(declining),
			TopItems:     head(declining, topItems),
			TotalDecline: totalDecline,
		},
		TotalOpportunities: len(quickWins) + len(ctrOpps) + len(expand) + len(gaps) + len(declining),
	}, nil
}

// ActionList builds the prioritized to-do list: top 10 quick wins, then
// top 5 CTR fixes, then top 5 content gaps, numbered consecutively.
func (s *Service) ActionList(ctx context.Context, siteURL, startDate, endDate string) ([]Action, error) {
	var actions []Action

	quickWins, err := s.detectors.QuickWins(ctx, siteURL, startDate, endDate,
		opportunityuc.QuickWinOptions{Limit: 10})
	if err != nil {
		return nil, fmt.Errorf("quick wins: %w", err)
	}
	for _, kw := range quickWins {
		actions = append(actions, Action{
			Priority:        len(actions) + 1,
			Type:            "Quick Win",
			Query:           kw.Query,
			Page:            kw.Page,
			Action:          fmt.Sprintf("Optimize content for '%s' - currently position %.1f", kw.Query, kw.Position),
			PotentialImpact: fmt.Sprintf("+%d clicks", kw.ClickUplift),
			Metrics:         fmt.Sprintf("Position: %.1f, Impressions: %d", kw.Position, kw.Impressions),
		})
	}

	ctrOpps, err := s.detectors.CTROpportunities(ctx, siteURL, startDate, endDate,
		opportunityuc.CTRGapOptions{Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("ctr opportunities: %w", err)
	}
	for _, kw := range ctrOpps {
		actions = append(actions, Action{
			Priority:        len(actions) + 1,
			Type:            "CTR Optimization",
			Query:           kw.Query,
			Page:            kw.Page,
			Action:          fmt.Sprintf("Improve title/description for '%s' - CTR only %.2f%%", kw.Query, kw.CTR),
			PotentialImpact: fmt.Sprintf("+%d clicks", kw.ClickUplift),
			Metrics:         fmt.Sprintf("Position: %.1f, CTR: %.2f%%, Expected: %.2f%%", kw.Position, kw.CTR, kw.ExpectedCTR),
		})
	}

	gaps, err := s.detectors.ContentGaps(ctx, siteURL, startDate, endDate,
		opportunityuc.ContentGapOptions{Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("content gaps: %w", err)
	}
	for _, gap := range gaps {
		actions = append(actions, Action{
			Priority:        len(actions) + 1,
			Type:            "Content Gap",
			Query:           gap.ClusterName,
			Page:            "New page needed",
			Action:          fmt.Sprintf("Create new content for '%s' cluster", gap.ClusterName),
			PotentialImpact: fmt.Sprintf("%d impressions available", gap.TotalImpressions),
			Metrics:         fmt.Sprintf("Queries: %d, Best position: %.1f", gap.QueryCount, gap.BestPosition),
		})
	}

	return actions, nil
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
