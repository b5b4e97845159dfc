package summary

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchscope/internal/domain"
	opportunityuc "github.com/kailas-cloud/searchscope/internal/usecase/opportunity"
)

// mockSource serves one fixed dataset for analysis ranges and a second
// one for the declining detector's previous window.
type mockSource struct {
	rows     []domain.MetricRow
	previous []domain.MetricRow
}

func (m *mockSource) Aggregated(ctx context.Context, siteURL, startDate, endDate string, groupBy domain.GroupBy) ([]domain.MetricRow, error) {
	// The previous comparison window is the only range starting before
	// the analysis range.
	if startDate < "2026-05-01" {
		return m.previous, nil
	}
	return m.rows, nil
}

func newTestService(src *mockSource) *Service {
	return New(opportunityuc.New(src, zap.NewNop(), nil), zap.NewNop())
}

func testRows() []domain.MetricRow {
	return []domain.MetricRow{
		// Quick win: position 4-20, >=100 impressions.
		{Query: "running shoes", Page: "/shoes", Clicks: 50, Impressions: 1000, CTR: 0.05, Position: 8},
		// CTR opportunity: top 3, low CTR, >=50 impressions. Declines too.
		{Query: "brand name", Page: "/", Clicks: 10, Impressions: 500, CTR: 0.02, Position: 2},
		// Content gap pair: position >=20, >=50 impressions.
		{Query: "marathon training plan", Page: "/blog", Clicks: 2, Impressions: 400, Position: 25},
		{Query: "training plan marathon tips", Page: "/faq", Clicks: 1, Impressions: 300, Position: 30},
	}
}

func TestOverview_CountsAndUplifts(t *testing.T) {
	src := &mockSource{
		rows: testRows(),
		previous: []domain.MetricRow{
			{Query: "brand name", Page: "/", Clicks: 100, Impressions: 900, Position: 1.8},
		},
	}
	svc := newTestService(src)

	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	sum, err := svc.Overview(context.Background(), "example.com", "2026-05-01", "2026-07-30", now)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	if sum.QuickWins.Count != 1 {
		t.Errorf("QuickWins.Count = %d, want 1", sum.QuickWins.Count)
	}
	if sum.QuickWins.PotentialClicks != 200 {
		t.Errorf("QuickWins.PotentialClicks = %d, want 200", sum.QuickWins.PotentialClicks)
	}
	if sum.CTROpportunities.Count != 1 {
		t.Errorf("CTROpportunities.Count = %d, want 1", sum.CTROpportunities.Count)
	}
	if sum.ContentGaps.Count != 1 {
		t.Errorf("ContentGaps.Count = %d, want 1", sum.ContentGaps.Count)
	}
	if sum.ContentGaps.TotalImpressions != 700 {
		t.Errorf("ContentGaps.TotalImpressions = %d, want 700", sum.ContentGaps.TotalImpressions)
	}
	if sum.DecliningKeywords.Count != 1 {
		t.Errorf("DecliningKeywords.Count = %d, want 1", sum.DecliningKeywords.Count)
	}
	if sum.DecliningKeywords.TotalDecline != 90 {
		t.Errorf("TotalDecline = %d, want 90", sum.DecliningKeywords.TotalDecline)
	}
	if sum.TotalOpportunities != 4 {
		t.Errorf("TotalOpportunities = %d, want 4", sum.TotalOpportunities)
	}
}

func TestOverview_TopItemsCappedAtFive(t *testing.T) {
	var rows []domain.MetricRow
	for i := 0; i < 8; i++ {
		rows = append(rows, domain.MetricRow{
			Query:       strings.Repeat("q", i+1),
			Page:        "/p",
			Impressions: int64(1000 - i),
			Position:    10,
		})
	}
	svc := newTestService(&mockSource{rows: rows})

	sum, err := svc.Overview(context.Background(), "example.com", "2026-05-01", "2026-07-30", time.Now())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if sum.QuickWins.Count != 8 {
		t.Errorf("Count = %d, want 8", sum.QuickWins.Count)
	}
	if len(sum.QuickWins.TopItems) != 5 {
		t.Errorf("TopItems = %d, want 5", len(sum.QuickWins.TopItems))
	}
}

func TestActionList_OrderAndNumbering(t *testing.T) {
	svc := newTestService(&mockSource{rows: testRows()})

	actions, err := svc.ActionList(context.Background(), "example.com", "2026-05-01", "2026-07-30")
	if err != nil {
		t.Fatalf("ActionList: %v", err)
	}
	// 1 quick win, 1 CTR fix, 1 content gap.
	if len(actions) != 3 {
		t.Fatalf("got %d actions, want 3", len(actions))
	}

	for i, a := range actions {
		if a.Priority != i+1 {
			t.Errorf("action %d has priority %d", i, a.Priority)
		}
	}
	if actions[0].Type != "Quick Win" || actions[1].Type != "CTR Optimization" || actions[2].Type != "Content Gap" {
		t.Errorf("unexpected type order: %v, %v, %v", actions[0].Type, actions[1].Type, actions[2].Type)
	}

	if !strings.Contains(actions[0].Action, "currently position 8.0") {
		t.Errorf("quick win action = %q", actions[0].Action)
	}
	if !strings.Contains(actions[1].Action, "CTR only 2.00%") {
		t.Errorf("ctr action = %q", actions[1].Action)
	}
	if actions[2].Page != "New page needed" {
		t.Errorf("gap page = %q", actions[2].Page)
	}
	if !strings.Contains(actions[2].PotentialImpact, "impressions available") {
		t.Errorf("gap impact = %q", actions[2].PotentialImpact)
	}
}
