// Package keywords implements the paginated keyword browser over
// aggregated search data.
package keywords

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/opportunity"
)

// Source produces aggregated search rows for a site and date range (ISP).
type Source interface {
	Aggregated(ctx context.Context, siteURL, startDate, endDate string, groupBy domain.GroupBy) ([]domain.MetricRow, error)
}

// Keyword is one formatted row in the browser. CTR is a percentage
// rounded to 2 decimals; Position is rounded to 1 decimal.
type Keyword struct {
	Query       string
	Page        string
	Impressions int64
	Clicks      int64
	CTR         float64
	Position    float64
}

// ListOptions control filtering, sorting and pagination. Zero Page and
// PerPage take the defaults.
type ListOptions struct {
	GroupBy   domain.GroupBy
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

func (o ListOptions) withDefaults() ListOptions {
	if o.GroupBy == "" {
		o.GroupBy = domain.GroupByQuery
	}
	if o.SortBy == "" {
		o.SortBy = "impressions"
	}
	if o.SortOrder == "" {
		o.SortOrder = "desc"
	}
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.PerPage <= 0 {
		o.PerPage = 50
	}
	return o
}

// Service lists keywords with search, sorting and pagination.
type Service struct {
	source Source
	logger *zap.Logger
}

// New creates the keyword browser service.
func New(source Source, logger *zap.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// List returns one page of keywords plus the total row and page counts.
// Unknown sort keys fall back to impressions. Sorting by position flips
// the direction because a lower position is better.
func (s *Service) List(ctx context.Context, siteURL, startDate, endDate string, opts ListOptions) ([]Keyword, int, int, error) {
	opts = opts.withDefaults()

	rows, err := s.source.Aggregated(ctx, siteURL, startDate, endDate, opts.GroupBy)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("load aggregated rows: %w", err)
	}

	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		filtered := rows[:0:0]
		for _, row := range rows {
			if strings.Contains(strings.ToLower(row.Query), needle) ||
				strings.Contains(strings.ToLower(row.Page), needle) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	sortRows(rows, opts.SortBy, opts.SortOrder)

	total := len(rows)
	totalPages := (total + opts.PerPage - 1) / opts.PerPage

	start := (opts.Page - 1) * opts.PerPage
	if start > total {
		start = total
	}
	end := start + opts.PerPage
	if end > total {
		end = total
	}

	out := make([]Keyword, 0, end-start)
	for _, row := range rows[start:end] {
		out = append(out, Keyword{
			Query:       row.Query,
			Page:        row.Page,
			Impressions: row.Impressions,
			Clicks:      row.Clicks,
			CTR:         opportunity.Round2(row.CTR * 100),
			Position:    opportunity.Round1(row.Position),
		})
	}
	return out, total, totalPages, nil
}

func sortRows(rows []domain.MetricRow, sortBy, sortOrder string) {
	reverse := sortOrder == "desc"
	// Lower position is better, so the direction flips.
	if sortBy == "position" {
		reverse = !reverse
	}

	var less func(a, b domain.MetricRow) bool
	switch sortBy {
	case "clicks":
		less = func(a, b domain.MetricRow) bool { return a.Clicks < b.Clicks }
	case "ctr":
		less = func(a, b domain.MetricRow) bool { return a.CTR < b.CTR }
	case "position":
		less = func(a, b domain.MetricRow) bool { return a.Position < b.Position }
	case "query":
		less = func(a, b domain.MetricRow) bool {
			return strings.ToLower(a.Query) < strings.ToLower(b.Query)
		}
	default:
		less = func(a, b domain.MetricRow) bool { return a.Impressions < b.Impressions }
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if reverse {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
