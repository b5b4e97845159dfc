package opportunity

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/opportunity"
)

// potentialTopCTR is the assumed click-through rate after a keyword
// reaches the top three results.
const potentialTopCTR = 0.25

// QuickWinOptions tune the quick-win detector. Zero fields take the
// defaults.
type QuickWinOptions struct {
	MinPosition    float64
	MaxPosition    float64
	MinImpressions int64
	Limit          int
}

func (o QuickWinOptions) withDefaults() QuickWinOptions {
	if o.MinPosition == 0 {
		o.MinPosition = 4
	}
	if o.MaxPosition == 0 {
		o.MaxPosition = 20
	}
	if o.MinImpressions == 0 {
		o.MinImpressions = 100
	}
	if o.Limit == 0 {
		o.Limit = 100
	}
	return o
}

// QuickWins finds keywords ranking just off page 1 with enough
// impressions to reward a ranking push. The priority score is
// impressions divided by position, so high-visibility keywords close to
// the top sort first.
func (s *Service) QuickWins(ctx context.Context, siteURL, startDate, endDate string, opts QuickWinOptions) ([]opportunity.QuickWin, error) {
	defer s.observe("quick_wins")()
	opts = opts.withDefaults()

	rows, err := s.source.Aggregated(ctx, siteURL, startDate, endDate, domain.GroupByQuery)
	if err != nil {
		return nil, fmt.Errorf("load aggregated rows: %w", err)
	}

	var wins []opportunity.QuickWin
	for _, row := range rows {
		if row.Position < opts.MinPosition || row.Position > opts.MaxPosition {
			continue
		}
		if row.Impressions < opts.MinImpressions {
			continue
		}

		var score float64
		if row.Position > 0 {
			score = float64(row.Impressions) / row.Position
		}
		potential := int64(float64(row.Impressions) * potentialTopCTR)
		uplift := potential - row.Clicks
		if uplift < 0 {
			uplift = 0
		}

		wins = append(wins, opportunity.QuickWin{
			Query:           row.Query,
			Page:            row.Page,
			Position:        opportunity.Round1(row.Position),
			Impressions:     row.Impressions,
			Clicks:          row.Clicks,
			CTR:             opportunity.Round2(row.CTR * 100),
			PriorityScore:   opportunity.Round2(score),
			PotentialClicks: potential,
			ClickUplift:     uplift,
		})
	}

	sort.SliceStable(wins, func(i, j int) bool {
		return wins[i].PriorityScore > wins[j].PriorityScore
	})
	if len(wins) > opts.Limit {
		wins = wins[:opts.Limit]
	}
	return wins, nil
}
