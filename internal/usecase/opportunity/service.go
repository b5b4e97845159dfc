package opportunity

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Service runs the opportunity detectors.
type Service struct {
	source    Source
	logger    *zap.Logger
	durations *prometheus.HistogramVec
}

// New creates the detector service. durations may be nil; when set it
// must have a "detector" label.
func New(source Source, logger *zap.Logger, durations *prometheus.HistogramVec) *Service {
	return &Service{
		source:    source,
		logger:    logger,
		durations: durations,
	}
}

// observe times one detector run. Call the returned func when done.
func (s *Service) observe(detector string) func() {
	if s.durations == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		s.durations.WithLabelValues(detector).Observe(time.Since(start).Seconds())
	}
}
