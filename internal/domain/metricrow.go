package domain

// GroupBy selects the aggregation axis for search data.
type GroupBy string

const (
	// GroupByQuery aggregates rows per (query, page) pair.
	GroupByQuery GroupBy = "query"
	// GroupByPage aggregates rows per page across all queries.
	GroupByPage GroupBy = "page"
)

// Valid reports whether g is a supported grouping.
func (g GroupBy) Valid() bool {
	return g == GroupByQuery || g == GroupByPage
}

// DateFormat is the wire format for all dates in this system.
const DateFormat = "2006-01-02"

// MetricRow is one aggregated search-performance row for a date range.
// CTR and Position are impression-weighted means; both are defined zeros
// (not NaN) when Impressions is zero. Rows are read-only inputs to the
// analyzers and are never mutated.
type MetricRow struct {
	Query       string
	Page        string
	Clicks      int64
	Impressions int64
	CTR         float64 // clicks/impressions over the range, in [0,1]
	Position    float64 // weighted mean position, lower is better
}

// Sanitize clamps out-of-range values from a permissive data source:
// negative counters become 0, CTR is clamped into [0,1], negative
// positions become 0. Applied once at the data-access boundary so the
// analyzers never re-check.
func (r MetricRow) Sanitize() MetricRow {
	if r.Clicks < 0 {
		r.Clicks = 0
	}
	if r.Impressions < 0 {
		r.Impressions = 0
	}
	if r.Impressions == 0 {
		r.CTR = 0
		r.Position = 0
		return r
	}
	if r.CTR < 0 {
		r.CTR = 0
	}
	if r.CTR > 1 {
		r.CTR = 1
	}
	if r.Position < 0 {
		r.Position = 0
	}
	return r
}
