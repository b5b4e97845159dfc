package chi

import (
	"net/http"

	"github.com/kailas-cloud/searchscope/internal/domain"
	keywordsuc "github.com/kailas-cloud/searchscope/internal/usecase/keywords"
)

// handleKeywords handles GET /api/v1/keywords.
func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
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

	opts := keywordsuc.ListOptions{
		GroupBy:   domain.GroupBy(q.Get("group_by")),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if opts.GroupBy != "" && !opts.GroupBy.Valid() {
		s.handleDomainError(w, domain.ErrInvalidGroupBy)
		return
	}
	if opts.Page, err = intParam(q, "page", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if opts.PerPage, err = intParam(q, "per_page", 0); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	startDate, endDate := window.wire()
	rows, total, totalPages, err := s.keywords.List(r.Context(), site, startDate, endDate, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]keywordDTO, len(rows))
	for i, row := range rows {
		items[i] = keywordToDTO(row)
	}

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 50
	}

	writeJSON(w, http.StatusOK, keywordListDTO{
		Data:       items,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PerPage:    perPage,
	})
}
