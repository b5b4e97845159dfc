package opportunity

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/cluster"
	"github.com/kailas-cloud/searchscope/internal/domain/opportunity"
)

// ContentGapOptions tune the content-gap detector. Zero fields take the
// defaults.
type ContentGapOptions struct {
	MinPosition    float64
	MinImpressions int64
	MinClusterSize int
	Limit          int
}

func (o ContentGapOptions) withDefaults() ContentGapOptions {
	if o.MinPosition == 0 {
		o.MinPosition = 20
	}
	if o.MinImpressions == 0 {
		o.MinImpressions = 50
	}
	if o.MinClusterSize == 0 {
		o.MinClusterSize = 2
	}
	if o.Limit == 0 {
		o.Limit = 50
	}
	return o
}

// ContentGaps clusters poorly-ranking queries with search demand and
// suggests a dedicated page per cluster.
func (s *Service) ContentGaps(ctx context.Context, siteURL, startDate, endDate string, opts ContentGapOptions) ([]opportunity.ContentGap, error) {
	defer s.observe("content_gaps")()
	opts = opts.withDefaults()

	rows, err := s.source.Aggregated(ctx, siteURL, startDate, endDate, domain.GroupByQuery)
	if err != nil {
		return nil, fmt.Errorf("load aggregated rows: %w", err)
	}

	var poorRanking []cluster.Record
	for _, row := range rows {
		if row.Position >= opts.MinPosition && row.Impressions >= opts.MinImpressions {
			poorRanking = append(poorRanking, cluster.Record{
				Query:       row.Query,
				Page:        row.Page,
				Impressions: row.Impressions,
				Clicks:      row.Clicks,
				Position:    row.Position,
			})
		}
	}

	clusters := cluster.Group(poorRanking)

	var gaps []opportunity.ContentGap
	for name, c := range clusters {
		if len(c.Queries) < opts.MinClusterSize {
			continue
		}

		pages := c.Pages
		if len(pages) > 5 {
			pages = pages[:5]
		}

		priority := opportunity.PriorityMedium
		if c.TotalImpressions > 500 {
			priority = opportunity.PriorityHigh
		}

		gaps = append(gaps, opportunity.ContentGap{
			ClusterName:      name,
			Queries:          c.Queries,
			QueryCount:       len(c.Queries),
			TotalImpressions: c.TotalImpressions,
			TotalClicks:      c.TotalClicks,
			BestPosition:     c.BestPosition,
			CurrentPages:     pages,
			SuggestedAction:  fmt.Sprintf("Create dedicated page for '%s' topic", name),
			Priority:         priority,
		})
	}

	// Map iteration order is random, so break impression ties by name
	// for a stable result.
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].TotalImpressions != gaps[j].TotalImpressions {
			return gaps[i].TotalImpressions > gaps[j].TotalImpressions
		}
		return gaps[i].ClusterName < gaps[j].ClusterName
	})
	if len(gaps) > opts.Limit {
		gaps = gaps[:opts.Limit]
	}
	return gaps, nil
}
