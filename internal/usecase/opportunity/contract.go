// Package opportunity implements the content-opportunity detectors over
// aggregated search data.
package opportunity

import (
	"context"

	"github.com/kailas-cloud/searchscope/internal/domain"
)

// Source produces aggregated search rows for a site and date range (ISP).
type Source interface {
	Aggregated(ctx context.Context, siteURL, startDate, endDate string, groupBy domain.GroupBy) ([]domain.MetricRow, error)
}
