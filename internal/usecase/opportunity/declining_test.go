package opportunity

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/opportunity"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
}

func TestDecliningKeywords_ComparisonWindows(t *testing.T) {
	src := &mockSource{}
	svc := newTestService(src)

	_, err := svc.DecliningKeywords(context.Background(), "example.com", DecliningOptions{Now: fixedNow()})
	if err != nil {
		t.Fatalf("DecliningKeywords: %v", err)
	}
	if len(src.calls) != 2 {
		t.Fatalf("got %d source calls, want 2", len(src.calls))
	}

	// Recent window: 30 days ending 3 days before now.
	recent := src.calls[0]
	if recent.start != "2026-07-28" || recent.end != "2026-08-27" {
		t.Errorf("recent window = %s..%s", recent.start, recent.end)
	}
	// Previous window: same length, shifted back by the comparison gap.
	previous := src.calls[1]
	if previous.start != "2026-04-29" || previous.end != "2026-05-29" {
		t.Errorf("previous window = %s..%s", previous.start, previous.end)
	}
}

func TestDecliningKeywords_DetectsDrop(t *testing.T) {
	src := &mockSource{rowsFn: func(start, end string) []domain.MetricRow {
		if start == "2026-07-28" { // recent window
			return []domain.MetricRow{
				{Query: "fading topic", Page: "/old", Clicks: 40, Impressions: 900, Position: 9.5},
			}
		}
		return []domain.MetricRow{
			{Query: "fading topic", Page: "/old", Clicks: 100, Impressions: 2000, Position: 5.2},
		}
	}}
	svc := newTestService(src)

	out, err := svc.DecliningKeywords(context.Background(), "example.com", DecliningOptions{Now: fixedNow()})
	if err != nil {
		t.Fatalf("DecliningKeywords: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d declining keywords, want 1", len(out))
	}

	d := out[0]
	if d.Decline != 60 {
		t.Errorf("Decline = %d, want 60", d.Decline)
	}
	if d.DeclinePercent != 60.0 {
		t.Errorf("DeclinePercent = %v, want 60.0", d.DeclinePercent)
	}
	if d.Priority != opportunity.PriorityHigh {
		t.Errorf("Priority = %v, want high at >=50%% decline", d.Priority)
	}
	if d.PositionChange != 4.3 {
		t.Errorf("PositionChange = %v, want 4.3", d.PositionChange)
	}
}

func TestDecliningKeywords_Thresholds(t *testing.T) {
	tests := []struct {
		name       string
		prevClicks int64
		currClicks int64
		want       bool
	}{
		{"previous clicks below minimum", 49, 10, false},
		{"decline below 30 percent", 100, 71, false},
		{"decline at 30 percent", 100, 70, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &mockSource{rowsFn: func(start, end string) []domain.MetricRow {
				clicks := tt.currClicks
				if start != "2026-07-28" {
					clicks = tt.prevClicks
				}
				return []domain.MetricRow{{Query: "q", Page: "/p", Clicks: clicks, Impressions: 500, Position: 8}}
			}}
			svc := newTestService(src)

			out, err := svc.DecliningKeywords(context.Background(), "example.com", DecliningOptions{Now: fixedNow()})
			if err != nil {
				t.Fatalf("DecliningKeywords: %v", err)
			}
			if got := len(out) == 1; got != tt.want {
				t.Errorf("included = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecliningKeywords_MediumPriorityBelow50Percent(t *testing.T) {
	src := &mockSource{rowsFn: func(start, end string) []domain.MetricRow {
		clicks := int64(65)
		if start != "2026-07-28" {
			clicks = 100
		}
		return []domain.MetricRow{{Query: "q", Page: "/p", Clicks: clicks, Impressions: 500, Position: 8}}
	}}
	svc := newTestService(src)

	out, err := svc.DecliningKeywords(context.Background(), "example.com", DecliningOptions{Now: fixedNow()})
	if err != nil {
		t.Fatalf("DecliningKeywords: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d declining keywords, want 1", len(out))
	}
	if out[0].Priority != opportunity.PriorityMedium {
		t.Errorf("Priority = %v, want medium", out[0].Priority)
	}
}

func TestDecliningKeywords_NewKeywordsIgnored(t *testing.T) {
	// A pair present only in the recent window has no baseline.
	src := &mockSource{rowsFn: func(start, end string) []domain.MetricRow {
		if start == "2026-07-28" {
			return []domain.MetricRow{{Query: "brand new", Page: "/n", Clicks: 5, Impressions: 100, Position: 12}}
		}
		return nil
	}}
	svc := newTestService(src)

	out, err := svc.DecliningKeywords(context.Background(), "example.com", DecliningOptions{Now: fixedNow()})
	if err != nil {
		t.Fatalf("DecliningKeywords: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d declining keywords, want 0", len(out))
	}
}

func TestDecliningKeywords_SortedByAbsoluteDecline(t *testing.T) {
	src := &mockSource{rowsFn: func(start, end string) []domain.MetricRow {
		if start == "2026-07-28" {
			return []domain.MetricRow{
				{Query: "small drop", Page: "/a", Clicks: 60, Impressions: 500, Position: 5},
				{Query: "big drop", Page: "/b", Clicks: 100, Impressions: 500, Position: 5},
			}
		}
		return []domain.MetricRow{
			{Query: "small drop", Page: "/a", Clicks: 100, Impressions: 500, Position: 5},
			{Query: "big drop", Page: "/b", Clicks: 400, Impressions: 500, Position: 5},
		}
	}}
	svc := newTestService(src)

	out, err := svc.DecliningKeywords(context.Background(), "example.com", DecliningOptions{Now: fixedNow()})
	if err != nil {
		t.Fatalf("DecliningKeywords: %v", err)
	}
	if len(out) != 2 || out[0].Query != "big drop" {
		t.Errorf("unexpected order: %+v", out)
	}
}
