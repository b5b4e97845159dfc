package opportunity

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchscope/internal/domain"
)

type rangeCall struct {
	start, end string
	groupBy    domain.GroupBy
}

// mockSource serves canned rows; rowsFn overrides per date range when
// set, for the two-window detector.
type mockSource struct {
	rows   []domain.MetricRow
	rowsFn func(start, end string) []domain.MetricRow
	err    error
	calls  []rangeCall
}

func (m *mockSource) Aggregated(ctx context.Context, siteURL, startDate, endDate string, groupBy domain.GroupBy) ([]domain.MetricRow, error) {
	m.calls = append(m.calls, rangeCall{start: startDate, end: endDate, groupBy: groupBy})
	if m.err != nil {
		return nil, m.err
	}
	if m.rowsFn != nil {
		return m.rowsFn(startDate, endDate), nil
	}
	return m.rows, nil
}

func newTestService(src Source) *Service {
	return New(src, zap.NewNop(), nil)
}
