package opportunity

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/opportunity"
)

// ExpandOptions tune the page-expansion detector. Zero fields take the
// defaults.
type ExpandOptions struct {
	MinKeywords int
	Limit       int
}

func (o ExpandOptions) withDefaults() ExpandOptions {
	if o.MinKeywords == 0 {
		o.MinKeywords = 5
	}
	if o.Limit == 0 {
		o.Limit = 100
	}
	return o
}

type pageAccumulator struct {
	keywords    []opportunity.KeywordDetail
	clicks      int64
	impressions int64
	positionSum float64
}

// PagesToExpand finds pages ranking for many distinct keywords, good
// candidates for content expansion. The average position is the
// unweighted mean across member keywords: it measures topical spread,
// not traffic-weighted rank.
func (s *Service) PagesToExpand(ctx context.Context, siteURL, startDate, endDate string, opts ExpandOptions) ([]opportunity.PageExpansion, error) {
	defer s.observe("pages_to_expand")()
	opts = opts.withDefaults()

	rows, err := s.source.Aggregated(ctx, siteURL, startDate, endDate, domain.GroupByQuery)
	if err != nil {
		return nil, fmt.Errorf("load aggregated rows: %w", err)
	}

	// Group per page, preserving first-seen order so equal keyword
	// counts sort deterministically.
	byPage := make(map[string]*pageAccumulator)
	var order []string
	for _, row := range rows {
		if row.Page == "" {
			continue
		}
		acc, ok := byPage[row.Page]
		if !ok {
			acc = &pageAccumulator{}
			byPage[row.Page] = acc
			order = append(order, row.Page)
		}
		acc.keywords = append(acc.keywords, opportunity.KeywordDetail{
			Query:       row.Query,
			Impressions: row.Impressions,
			Clicks:      row.Clicks,
			Position:    opportunity.Round1(row.Position),
		})
		acc.clicks += row.Clicks
		acc.impressions += row.Impressions
		acc.positionSum += row.Position
	}

	var out []opportunity.PageExpansion
	for _, page := range order {
		acc := byPage[page]
		count := len(acc.keywords)
		if count < opts.MinKeywords {
			continue
		}

		avgPosition := acc.positionSum / float64(count)

		top := make([]opportunity.KeywordDetail, len(acc.keywords))
		copy(top, acc.keywords)
		sort.SliceStable(top, func(i, j int) bool {
			return top[i].Impressions > top[j].Impressions
		})
		if len(top) > 10 {
			top = top[:10]
		}

		priority := opportunity.PriorityLow
		switch {
		case count >= 20:
			priority = opportunity.PriorityHigh
		case count >= 10:
			priority = opportunity.PriorityMedium
		}

		out = append(out, opportunity.PageExpansion{
			Page:             page,
			KeywordCount:     count,
			TotalClicks:      acc.clicks,
			TotalImpressions: acc.impressions,
			AvgPosition:      opportunity.Round1(avgPosition),
			TopKeywords:      top,
			Priority:         priority,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].KeywordCount > out[j].KeywordCount
	})
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}
