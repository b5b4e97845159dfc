package chi

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/oapi-codegen/runtime/types"

	"github.com/kailas-cloud/searchscope/internal/domain"
)

// freshnessLag is how far behind the wall clock the default analysis
// window ends, because recent search-console data is incomplete.
const freshnessLag = 3

// dateRange is a validated analysis window. The endpoints are
// oapi-codegen dates so responses marshal them as YYYY-MM-DD.
type dateRange struct {
	start types.Date
	end   types.Date
}

// wire returns the endpoints in the YYYY-MM-DD form the data layer speaks.
func (r dateRange) wire() (start, end string) {
	return r.start.Format(types.DateFormat), r.end.Format(types.DateFormat)
}

// parseDateParam reads an optional YYYY-MM-DD query parameter.
func parseDateParam(q url.Values, name string) (types.Date, bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return types.Date{}, false, nil
	}
	t, err := time.Parse(types.DateFormat, raw)
	if err != nil {
		return types.Date{}, false, fmt.Errorf("%s must be YYYY-MM-DD: %w", name, domain.ErrInvalidDateRange)
	}
	return types.Date{Time: t}, true, nil
}

// parseDateRange resolves the analysis window. Explicit start_date and
// end_date win; otherwise the window is `days` long (default from
// config) ending three days before now.
func (s *Server) parseDateRange(q url.Values) (dateRange, error) {
	start, hasStart, err := parseDateParam(q, "start_date")
	if err != nil {
		return dateRange{}, err
	}
	end, hasEnd, err := parseDateParam(q, "end_date")
	if err != nil {
		return dateRange{}, err
	}

	if hasStart != hasEnd {
		return dateRange{}, fmt.Errorf("start_date and end_date must be given together: %w", domain.ErrInvalidDateRange)
	}
	if hasStart {
		if end.Time.Before(start.Time) {
			return dateRange{}, fmt.Errorf("end_date before start_date: %w", domain.ErrInvalidDateRange)
		}
		return dateRange{start: start, end: end}, nil
	}

	days := s.defaultDays
	if raw := q.Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return dateRange{}, fmt.Errorf("days must be a positive integer: %w", domain.ErrInvalidDateRange)
		}
		days = v
	}

	now := s.now()
	return dateRange{
		start: types.Date{Time: now.AddDate(0, 0, -(days + freshnessLag))},
		end:   types.Date{Time: now.AddDate(0, 0, -freshnessLag)},
	}, nil
}

// requireSite reads the mandatory site parameter.
func requireSite(q url.Values) (string, error) {
	site := q.Get("site")
	if site == "" {
		return "", fmt.Errorf("site parameter is required")
	}
	return site, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func int64Param(q url.Values, name string, def int64) (int64, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}
