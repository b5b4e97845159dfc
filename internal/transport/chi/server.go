package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchscope/internal/domain"
	exportuc "github.com/kailas-cloud/searchscope/internal/usecase/export"
	healthuc "github.com/kailas-cloud/searchscope/internal/usecase/health"
	keywordsuc "github.com/kailas-cloud/searchscope/internal/usecase/keywords"
	opportunityuc "github.com/kailas-cloud/searchscope/internal/usecase/opportunity"
	sitesuc "github.com/kailas-cloud/searchscope/internal/usecase/sites"
	summaryuc "github.com/kailas-cloud/searchscope/internal/usecase/summary"
)

// Server is the HTTP API over the analysis services.
type Server struct {
	opportunities *opportunityuc.Service
	keywords      *keywordsuc.Service
	summary       *summaryuc.Service
	export        *exportuc.Service
	sites         *sitesuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler

	defaultDays int
	now         func() time.Time
}

// NewServer creates an HTTP API server. defaultDays sizes the analysis
// window when the request carries no explicit dates.
func NewServer(
	opportunities *opportunityuc.Service,
	keywords *keywordsuc.Service,
	summary *summaryuc.Service,
	export *exportuc.Service,
	sites *sitesuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	defaultDays int,
) *Server {
	s := &Server{
		opportunities: opportunities,
		keywords:      keywords,
		summary:       summary,
		export:        export,
		sites:         sites,
		health:        health,
		logger:        logger,
		defaultDays:   defaultDays,
		now:           time.Now,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSiteNotFound, http.StatusNotFound, codeSiteNotFound),
		sentinelHandler(domain.ErrSyncNotFound, http.StatusNotFound, codeSyncNotFound),
		sentinelHandler(domain.ErrInvalidDateRange, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidGroupBy, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Routes mounts every endpoint on a fresh router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/opportunities", func(r chi.Router) {
			r.Get("/quick-wins", s.handleQuickWins)
			r.Get("/ctr", s.handleCTROpportunities)
			r.Get("/expand", s.handlePagesToExpand)
			r.Get("/content-gaps", s.handleContentGaps)
			r.Get("/declining", s.handleDeclining)
		})

		r.Get("/keywords", s.handleKeywords)
		r.Get("/summary", s.handleSummary)
		r.Get("/actions", s.handleActions)
		r.Get("/export", s.handleExport)

		r.Get("/stats", s.handleStats)
		r.Get("/history", s.handleHistory)

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", s.handleListProperties)
			r.Post("/", s.handleSaveProperty)
		})

		r.Route("/sites", func(r chi.Router) {
			r.Get("/date-range", s.handleDateRange)
			r.Get("/last-sync", s.handleLastSync)
			r.Get("/sync-history", s.handleSyncHistory)
			r.Get("/snapshots", s.handleListSnapshots)
			r.Post("/snapshots", s.handleCaptureSnapshot)
		})
	})

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}
