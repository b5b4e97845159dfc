package opportunity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/opportunity"
)

// DecliningOptions tune the declining-keyword detector. Now anchors the
// comparison windows; callers pass it explicitly so runs are
// reproducible. A zero Now falls back to the wall clock.
type DecliningOptions struct {
	Now               time.Time
	ComparisonMonths  int
	MinPreviousClicks int64
	MinDeclinePercent float64
	Limit             int
}

func (o DecliningOptions) withDefaults() DecliningOptions {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.ComparisonMonths == 0 {
		o.ComparisonMonths = 3
	}
	if o.MinPreviousClicks == 0 {
		o.MinPreviousClicks = 50
	}
	if o.MinDeclinePercent == 0 {
		o.MinDeclinePercent = 30
	}
	if o.Limit == 0 {
		o.Limit = 100
	}
	return o
}

// DecliningKeywords compares the last 30 days against the same-length
// window ComparisonMonths earlier and reports (query, page) pairs whose
// clicks dropped past the threshold. The recent window ends 3 days ago
// because fresh search-console data is incomplete.
func (s *Service) DecliningKeywords(ctx context.Context, siteURL string, opts DecliningOptions) ([]opportunity.DecliningKeyword, error) {
	defer s.observe("declining_keywords")()
	opts = opts.withDefaults()

	recentEnd := opts.Now.AddDate(0, 0, -3)
	recentStart := recentEnd.AddDate(0, 0, -30)
	previousEnd := recentStart.AddDate(0, 0, -30*(opts.ComparisonMonths-1))
	previousStart := previousEnd.AddDate(0, 0, -30)

	recent, err := s.source.Aggregated(ctx, siteURL,
		recentStart.Format(domain.DateFormat), recentEnd.Format(domain.DateFormat),
		domain.GroupByQuery)
	if err != nil {
		return nil, fmt.Errorf("load recent rows: %w", err)
	}

	previous, err := s.source.Aggregated(ctx, siteURL,
		previousStart.Format(domain.DateFormat), previousEnd.Format(domain.DateFormat),
		domain.GroupByQuery)
	if err != nil {
		return nil, fmt.Errorf("load previous rows: %w", err)
	}

	type pair struct{ query, page string }
	previousLookup := make(map[pair]domain.MetricRow, len(previous))
	for _, row := range previous {
		previousLookup[pair{row.Query, row.Page}] = row
	}

	var declining []opportunity.DecliningKeyword
	for _, row := range recent {
		prev, ok := previousLookup[pair{row.Query, row.Page}]
		if !ok || prev.Clicks < opts.MinPreviousClicks {
			continue
		}

		decline := prev.Clicks - row.Clicks
		declinePercent := float64(decline) / float64(prev.Clicks) * 100
		if declinePercent < opts.MinDeclinePercent {
			continue
		}

		priority := opportunity.PriorityMedium
		if declinePercent >= 50 {
			priority = opportunity.PriorityHigh
		}

		declining = append(declining, opportunity.DecliningKeyword{
			Query:               row.Query,
			Page:                row.Page,
			PreviousClicks:      prev.Clicks,
			CurrentClicks:       row.Clicks,
			Decline:             decline,
			DeclinePercent:      opportunity.Round1(declinePercent),
			PreviousPosition:    opportunity.Round1(prev.Position),
			CurrentPosition:     opportunity.Round1(row.Position),
			PositionChange:      opportunity.Round1(row.Position - prev.Position),
			PreviousImpressions: prev.Impressions,
			CurrentImpressions:  row.Impressions,
			Priority:            priority,
		})
	}

	sort.SliceStable(declining, func(i, j int) bool {
		return declining[i].Decline > declining[j].Decline
	})
	if len(declining) > opts.Limit {
		declining = declining[:opts.Limit]
	}
	return declining, nil
}
