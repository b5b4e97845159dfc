// Package export renders opportunity reports as CSV.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	opportunityuc "github.com/kailas-cloud/searchscope/internal/usecase/opportunity"
)

// Report types selectable by the caller.
const (
	TypeAll       = "all"
	TypeQuickWins = "quick_wins"
	TypeCTR       = "ctr"
	TypeExpand    = "expand"
	TypeGaps      = "gaps"
	TypeDeclining = "declining"
)

// ErrUnknownType signals an unsupported report type.
var ErrUnknownType = fmt.Errorf("unknown export type")

const exportLimit = 100

// Service renders opportunity CSV exports.
type Service struct {
	detectors *opportunityuc.Service
	logger    *zap.Logger
}

// New creates the export service over the detector service.
func New(detectors *opportunityuc.Service, logger *zap.Logger) *Service {
	return &Service{detectors: detectors, logger: logger}
}

// CSV renders the selected report sections, each capped at 100 rows,
// separated by a blank line. now anchors the declining comparison
// windows.
func (s *Service) CSV(ctx context.Context, siteURL, startDate, endDate, reportType string, now time.Time) ([]byte, error) {
	switch reportType {
	case TypeAll, TypeQuickWins, TypeCTR, TypeExpand, TypeGaps, TypeDeclining:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, reportType)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if reportType == TypeAll || reportType == TypeQuickWins {
		if err := s.writeQuickWins(ctx, w, siteURL, startDate, endDate); err != nil {
			return nil, err
		}
	}
	if reportType == TypeAll || reportType == TypeCTR {
		if err := s.writeCTR(ctx, w, siteURL, startDate, endDate); err != nil {
			return nil, err
		}
	}
	if reportType == TypeAll || reportType == TypeExpand {
		if err := s.writeExpand(ctx, w, siteURL, startDate, endDate); err != nil {
			return nil, err
		}
	}
	if reportType == TypeAll || reportType == TypeGaps {
		if err := s.writeGaps(ctx, w, siteURL, startDate, endDate); err != nil {
			return nil, err
		}
	}
	if reportType == TypeAll || reportType == TypeDeclining {
		if err := s.writeDeclining(ctx, w, siteURL, now); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) writeQuickWins(ctx context.Context, w *csv.Writer, siteURL, startDate, endDate string) error {
	wins, err := s.detectors.QuickWins(ctx, siteURL, startDate, endDate,
		opportunityuc.QuickWinOptions{Limit: exportLimit})
	if err != nil {
		return fmt.Errorf("quick wins: %w", err)
	}

	w.Write([]string{"Quick Win Keywords"})
	w.Write([]string{"Query", "Page", "Position", "Impressions", "Clicks", "CTR", "Potential Clicks", "Click Uplift"})
	for _, kw := range wins {
		w.Write([]string{
			kw.Query, kw.Page, f1(kw.Position), itoa(kw.Impressions),
			itoa(kw.Clicks), f2(kw.CTR), itoa(kw.PotentialClicks), itoa(kw.ClickUplift),
		})
	}
	return w.Write(nil)
}

func (s *Service) writeCTR(ctx context.Context, w *csv.Writer, siteURL, startDate, endDate string) error {
	opps, err := s.detectors.CTROpportunities(ctx, siteURL, startDate, endDate,
		opportunityuc.CTRGapOptions{Limit: exportLimit})
	if err != nil {
		return fmt.Errorf("ctr opportunities: %w", err)
	}

	w.Write([]string{"CTR Opportunities"})
	w.Write([]string{"Query", "Page", "Position", "Impressions", "Clicks", "CTR", "Expected CTR", "Click Uplift"})
	for _, kw := range opps {
		w.Write([]string{
			kw.Query, kw.Page, f1(kw.Position), itoa(kw.Impressions),
			itoa(kw.Clicks), f2(kw.CTR), f2(kw.ExpectedCTR), itoa(kw.ClickUplift),
		})
	}
	return w.Write(nil)
}

func (s *Service) writeExpand(ctx context.Context, w *csv.Writer, siteURL, startDate, endDate string) error {
	pages, err := s.detectors.PagesToExpand(ctx, siteURL, startDate, endDate,
		opportunityuc.ExpandOptions{Limit: exportLimit})
	if err != nil {
		return fmt.Errorf("pages to expand: %w", err)
	}

	w.Write([]string{"Pages to Expand"})
	w.Write([]string{"Page", "Keyword Count", "Total Impressions", "Total Clicks", "Avg Position", "Top Keywords"})
	for _, p := range pages {
		var names []string
		for i, kw := range p.TopKeywords {
			if i == 5 {
				break
			}
			names = append(names, kw.Query)
		}
		w.Write([]string{
			p.Page, strconv.Itoa(p.KeywordCount), itoa(p.TotalImpressions),
			itoa(p.TotalClicks), f1(p.AvgPosition), strings.Join(names, ", "),
		})
	}
	return w.Write(nil)
}

func (s *Service) writeGaps(ctx context.Context, w *csv.Writer, siteURL, startDate, endDate string) error {
	gaps, err := s.detectors.ContentGaps(ctx, siteURL, startDate, endDate,
		opportunityuc.ContentGapOptions{Limit: exportLimit})
	if err != nil {
		return fmt.Errorf("content gaps: %w", err)
	}

	w.Write([]string{"Content Gaps"})
	w.Write([]string{"Cluster", "Query Count", "Total Impressions", "Total Clicks", "Best Position", "Sample Queries"})
	for _, g := range gaps {
		var samples []string
		for i, q := range g.Queries {
			if i == 5 {
				break
			}
			samples = append(samples, q.Query)
		}
		w.Write([]string{
			g.ClusterName, strconv.Itoa(g.QueryCount), itoa(g.TotalImpressions),
			itoa(g.TotalClicks), f1(g.BestPosition), strings.Join(samples, ", "),
		})
	}
	return w.Write(nil)
}

func (s *Service) writeDeclining(ctx context.Context, w *csv.Writer, siteURL string, now time.Time) error {
	declining, err := s.detectors.DecliningKeywords(ctx, siteURL,
		opportunityuc.DecliningOptions{Now: now, Limit: exportLimit})
	if err != nil {
		return fmt.Errorf("declining keywords: %w", err)
	}

	w.Write([]string{"Declining Keywords"})
	w.Write([]string{"Query", "Page", "Previous Clicks", "Current Clicks", "Decline %", "Previous Position", "Current Position"})
	for _, kw := range declining {
		w.Write([]string{
			kw.Query, kw.Page, itoa(kw.PreviousClicks), itoa(kw.CurrentClicks),
			f1(kw.DeclinePercent), f1(kw.PreviousPosition), f1(kw.CurrentPosition),
		})
	}
	return nil
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func f1(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
