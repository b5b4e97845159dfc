package export

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchscope/internal/domain"
	opportunityuc "github.com/kailas-cloud/searchscope/internal/usecase/opportunity"
)

type mockSource struct {
	rows     []domain.MetricRow
	previous []domain.MetricRow
}

func (m *mockSource) Aggregated(ctx context.Context, siteURL, startDate, endDate string, groupBy domain.GroupBy) ([]domain.MetricRow, error) {
	if startDate < "2026-05-01" {
		return m.previous, nil
	}
	return m.rows, nil
}

func newTestService(src *mockSource) *Service {
	return New(opportunityuc.New(src, zap.NewNop(), nil), zap.NewNop())
}

func exportCSV(t *testing.T, svc *Service, reportType string) string {
	t.Helper()
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	data, err := svc.CSV(context.Background(), "example.com", "2026-05-01", "2026-07-30", reportType, now)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	return string(data)
}

func TestCSV_AllIncludesEverySection(t *testing.T) {
	svc := newTestService(&mockSource{
		rows: []domain.MetricRow{
			{Query: "running shoes", Page: "/shoes", Clicks: 50, Impressions: 1000, CTR: 0.05, Position: 8},
		},
	})

	out := exportCSV(t, svc, TypeAll)
	for _, section := range []string{
		"Quick Win Keywords", "CTR Opportunities", "Pages to Expand",
		"Content Gaps", "Declining Keywords",
	} {
		if !strings.Contains(out, section) {
			t.Errorf("missing section %q", section)
		}
	}
}

func TestCSV_QuickWinRow(t *testing.T) {
	svc := newTestService(&mockSource{
		rows: []domain.MetricRow{
			{Query: "running shoes", Page: "/shoes", Clicks: 50, Impressions: 1000, CTR: 0.05, Position: 8},
		},
	})

	out := exportCSV(t, svc, TypeQuickWins)
	r := csv.NewReader(strings.NewReader(out))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// Title, header, one data row, blank separator.
	if len(records) < 3 {
		t.Fatalf("got %d records: %v", len(records), records)
	}
	row := records[2]
	want := []string{"running shoes", "/shoes", "8.0", "1000", "50", "5.00", "250", "200"}
	if len(row) != len(want) {
		t.Fatalf("row = %v, want %v", row, want)
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, row[i], want[i])
		}
	}
}

func TestCSV_SingleSectionOnly(t *testing.T) {
	svc := newTestService(&mockSource{})

	out := exportCSV(t, svc, TypeGaps)
	if !strings.Contains(out, "Content Gaps") {
		t.Error("missing gaps section")
	}
	if strings.Contains(out, "Quick Win Keywords") || strings.Contains(out, "Declining Keywords") {
		t.Error("unexpected extra sections")
	}
}

func TestCSV_DecliningRowsUseComparisonWindows(t *testing.T) {
	svc := newTestService(&mockSource{
		rows: []domain.MetricRow{
			{Query: "fading", Page: "/old", Clicks: 40, Impressions: 900, Position: 9.5},
		},
		previous: []domain.MetricRow{
			{Query: "fading", Page: "/old", Clicks: 100, Impressions: 2000, Position: 5.2},
		},
	})

	out := exportCSV(t, svc, TypeDeclining)
	if !strings.Contains(out, "fading,/old,100,40,60.0,5.2,9.5") {
		t.Errorf("declining row missing or malformed:\n%s", out)
	}
}

func TestCSV_UnknownType(t *testing.T) {
	svc := newTestService(&mockSource{})
	_, err := svc.CSV(context.Background(), "example.com", "2026-05-01", "2026-07-30", "bogus", time.Now())
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("err = %v, want ErrUnknownType", err)
	}
}
