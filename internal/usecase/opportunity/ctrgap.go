package opportunity

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/ctr"
	"github.com/kailas-cloud/searchscope/internal/domain/opportunity"
)

// CTRGapOptions tune the low-CTR detector. Zero fields take the
// defaults.
type CTRGapOptions struct {
	MaxPosition    float64
	MaxCTR         float64
	MinImpressions int64
	Limit          int
}

func (o CTRGapOptions) withDefaults() CTRGapOptions {
	if o.MaxPosition == 0 {
		o.MaxPosition = 3
	}
	if o.MaxCTR == 0 {
		o.MaxCTR = 0.20
	}
	if o.MinImpressions == 0 {
		o.MinImpressions = 50
	}
	if o.Limit == 0 {
		o.Limit = 100
	}
	return o
}

// CTROpportunities finds keywords ranking in the top results but
// collecting fewer clicks than their position should yield. These pages
// usually need better titles and meta descriptions.
func (s *Service) CTROpportunities(ctx context.Context, siteURL, startDate, endDate string, opts CTRGapOptions) ([]opportunity.CTROpportunity, error) {
	defer s.observe("ctr_opportunities")()
	opts = opts.withDefaults()

	rows, err := s.source.Aggregated(ctx, siteURL, startDate, endDate, domain.GroupByQuery)
	if err != nil {
		return nil, fmt.Errorf("load aggregated rows: %w", err)
	}

	var out []opportunity.CTROpportunity
	for _, row := range rows {
		if row.Position > opts.MaxPosition || row.CTR >= opts.MaxCTR || row.Impressions < opts.MinImpressions {
			continue
		}

		expected := ctr.Expected(row.Position)
		gap := expected - row.CTR

		potential := int64(float64(row.Impressions) * expected)
		uplift := potential - row.Clicks
		if uplift < 0 {
			uplift = 0
		}

		priority := opportunity.PriorityLow
		switch {
		case gap > 0.15:
			priority = opportunity.PriorityHigh
		case gap > 0.10:
			priority = opportunity.PriorityMedium
		}

		out = append(out, opportunity.CTROpportunity{
			Query:           row.Query,
			Page:            row.Page,
			Position:        opportunity.Round1(row.Position),
			Impressions:     row.Impressions,
			Clicks:          row.Clicks,
			CTR:             opportunity.Round2(row.CTR * 100),
			ExpectedCTR:     opportunity.Round2(expected * 100),
			CTRGap:          opportunity.Round2(gap * 100),
			PotentialClicks: potential,
			ClickUplift:     uplift,
			Priority:        priority,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CTRGap > out[j].CTRGap
	})
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}
