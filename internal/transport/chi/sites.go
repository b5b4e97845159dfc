package chi

import (
	"encoding/json"
	"net/http"
)

// handleStats handles GET /api/v1/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
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

	startDate, endDate := window.wire()
	stats, err := s.sites.Stats(r.Context(), site, startDate, endDate)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsDTO{
		TotalKeywords:    stats.TotalKeywords,
		TotalPages:       stats.TotalPages,
		TotalClicks:      stats.TotalClicks,
		TotalImpressions: stats.TotalImpressions,
		AvgCTR:           stats.AvgCTR,
		AvgPosition:      stats.AvgPosition,
		StartDate:        window.start,
		EndDate:          window.end,
	})
}

// handleHistory handles GET /api/v1/history. Optional query and page_url
// parameters narrow the series to one keyword or one page.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
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

	startDate, endDate := window.wire()
	series, err := s.sites.Historical(r.Context(), site, startDate, endDate, q.Get("query"), q.Get("page_url"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]seriesPointDTO, len(series))
	for i, p := range series {
		items[i] = seriesPointDTO{
			Date:        p.Date,
			Clicks:      p.Clicks,
			Impressions: p.Impressions,
			CTR:         p.CTR,
			Position:    p.Position,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site":       site,
		"start_date": window.start,
		"end_date":   window.end,
		"data":       items,
	})
}

// handleListProperties handles GET /api/v1/properties.
func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.sites.Properties(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]propertyDTO, len(props))
	for i, p := range props {
		items[i] = propertyDTO{
			SiteURL:         p.SiteURL,
			PermissionLevel: p.PermissionLevel,
			AddedAt:         p.AddedAt,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": items})
}

// handleSaveProperty handles POST /api/v1/properties.
func (s *Server) handleSaveProperty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SiteURL         string `json:"site_url"`
		PermissionLevel string `json:"permission_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.SiteURL == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "site_url is required")
		return
	}

	if err := s.sites.SaveProperty(r.Context(), req.SiteURL, req.PermissionLevel); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"site_url":         req.SiteURL,
		"permission_level": req.PermissionLevel,
	})
}

// handleDateRange handles GET /api/v1/sites/date-range.
func (s *Server) handleDateRange(w http.ResponseWriter, r *http.Request) {
	site, err := requireSite(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	start, end, err := s.sites.DateRange(r.Context(), site)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site":       site,
		"start_date": start,
		"end_date":   end,
	})
}

// handleLastSync handles GET /api/v1/sites/last-sync.
func (s *Server) handleLastSync(w http.ResponseWriter, r *http.Request) {
	site, err := requireSite(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	rec, err := s.sites.LastSync(r.Context(), site)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, syncRecordToDTO(rec))
}

// handleSyncHistory handles GET /api/v1/sites/sync-history.
func (s *Server) handleSyncHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	site, err := requireSite(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	limit, err := intParam(q, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	records, err := s.sites.SyncHistory(r.Context(), site, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]syncRecordDTO, len(records))
	for i, rec := range records {
		items[i] = syncRecordToDTO(rec)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site": site,
		"data": items,
	})
}

// handleListSnapshots handles GET /api/v1/sites/snapshots.
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	site, err := requireSite(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	limit, err := intParam(q, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	snaps, err := s.sites.Snapshots(r.Context(), site, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]snapshotDTO, len(snaps))
	for i, snap := range snaps {
		items[i] = snapshotToDTO(snap)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site": site,
		"data": items,
	})
}

// handleCaptureSnapshot handles POST /api/v1/sites/snapshots. The rollup
// covers the 30 days ending today and overwrites any rollup already
// stored for today.
func (s *Server) handleCaptureSnapshot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SiteURL string `json:"site_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.SiteURL == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "site_url is required")
		return
	}

	snap, err := s.sites.CaptureSnapshot(r.Context(), req.SiteURL, s.now())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snapshotToDTO(snap))
}
