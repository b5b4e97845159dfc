package chi

import (
	"net/http"

	opportunityuc "github.com/kailas-cloud/searchscope/internal/usecase/opportunity"
)

// handleQuickWins handles GET /api/v1/opportunities/quick-wins.
func (s *Server) handleQuickWins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	site, err := requireSite(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	window, err := s.parseDateRange(q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var opts opportunityuc.QuickWinOptions
	if opts.MinPosition, err = floatParam(q, "min_position", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.MaxPosition, err = floatParam(q, "max_position", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.MinImpressions, err = int64Param(q, "min_impressions", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.Limit, err = intParam(q, "limit", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	startDate, endDate := window.wire()
	wins, err := s.opportunities.QuickWins(r.Context(), site, startDate, endDate, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]quickWinDTO, len(wins))
	for i, win := range wins {
		items[i] = quickWinToDTO(win)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site":       site,
		"start_date": window.start,
		"end_date":   window.end,
		"count":      len(items),
		"data":       items,
	})
}

// handleCTROpportunities handles GET /api/v1/opportunities/ctr.
func (s *Server) handleCTROpportunities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	site, err := requireSite(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	window, err := s.parseDateRange(q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var opts opportunityuc.CTRGapOptions
	if opts.MaxPosition, err = floatParam(q, "max_position", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.MaxCTR, err = floatParam(q, "max_ctr", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.MinImpressions, err = int64Param(q, "min_impressions", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.Limit, err = intParam(q, "limit", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	startDate, endDate := window.wire()
	opps, err := s.opportunities.CTROpportunities(r.Context(), site, startDate, endDate, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]ctrOpportunityDTO, len(opps))
	for i, o := range opps {
		items[i] = ctrOpportunityToDTO(o)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site":       site,
		"start_date": window.start,
		"end_date":   window.end,
		"count":      len(items),
		"data":       items,
	})
}

// handlePagesToExpand handles GET /api/v1/opportunities/expand.
func (s *Server) handlePagesToExpand(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	site, err := requireSite(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	window, err := s.parseDateRange(q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var opts opportunityuc.ExpandOptions
	if opts.MinKeywords, err = intParam(q, "min_keywords", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.Limit, err = intParam(q, "limit", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	startDate, endDate := window.wire()
	pages, err := s.opportunities.PagesToExpand(r.Context(), site, startDate, endDate, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]pageExpansionDTO, len(pages))
	for i, p := range pages {
		items[i] = pageExpansionToDTO(p)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site":       site,
		"start_date": window.start,
		"end_date":   window.end,
		"count":      len(items),
		"data":       items,
	})
}

// handleContentGaps handles GET /api/v1/opportunities/content-gaps.
func (s *Server) handleContentGaps(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	site, err := requireSite(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	window, err := s.parseDateRange(q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var opts opportunityuc.ContentGapOptions
	if opts.MinPosition, err = floatParam(q, "min_position", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.MinImpressions, err = int64Param(q, "min_impressions", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.MinClusterSize, err = intParam(q, "min_cluster_size", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.Limit, err = intParam(q, "limit", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	startDate, endDate := window.wire()
	gaps, err := s.opportunities.ContentGaps(r.Context(), site, startDate, endDate, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]contentGapDTO, len(gaps))
	for i, g := range gaps {
		items[i] = contentGapToDTO(g)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site":       site,
		"start_date": window.start,
		"end_date":   window.end,
		"count":      len(items),
		"data":       items,
	})
}

// handleDeclining handles GET /api/v1/opportunities/declining.
func (s *Server) handleDeclining(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	site, err := requireSite(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	opts := opportunityuc.DecliningOptions{Now: s.now()}
	if opts.ComparisonMonths, err = intParam(q, "comparison_months", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.MinPreviousClicks, err = int64Param(q, "min_previous_clicks", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.MinDeclinePercent, err = floatParam(q, "min_decline_percent", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.Limit, err = intParam(q, "limit", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	declining, err := s.opportunities.DecliningKeywords(r.Context(), site, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]decliningKeywordDTO, len(declining))
	for i, d := range declining {
		items[i] = decliningKeywordToDTO(d)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site":  site,
		"count": len(items),
		"data":  items,
	})
}
