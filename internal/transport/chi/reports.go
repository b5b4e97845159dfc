package chi

import (
	"errors"
	"fmt"
	"net/http"

	exportuc "github.com/kailas-cloud/searchscope/internal/usecase/export"
)

// handleSummary handles GET /api/v1/summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
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
	overview, err := s.summary.Overview(r.Context(), site, startDate, endDate, s.now())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site":       site,
		"start_date": window.start,
		"end_date":   window.end,
		"summary":    summaryToDTO(overview),
	})
}

// handleActions handles GET /api/v1/actions.
func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
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
	actions, err := s.summary.ActionList(r.Context(), site, startDate, endDate)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]actionDTO, len(actions))
	for i, a := range actions {
		items[i] = actionToDTO(a)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site":       site,
		"start_date": window.start,
		"end_date":   window.end,
		"count":      len(items),
		"data":       items,
	})
}

// handleExport handles GET /api/v1/export. Responds with a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
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

	reportType := q.Get("type")
	if reportType == "" {
		reportType = exportuc.TypeAll
	}

	startDate, endDate := window.wire()
	data, err := s.export.CSV(r.Context(), site, startDate, endDate, reportType, s.now())
	if err != nil {
		if errors.Is(err, exportuc.ErrUnknownType) {
			writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		s.handleDomainError(w, err)
		return
	}

	filename := fmt.Sprintf("opportunities_%s_%s.csv", reportType, endDate)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
