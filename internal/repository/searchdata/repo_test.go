package searchdata

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/cluster"
)

func TestAggregated_GroupByQuery(t *testing.T) {
	db := &mockDB{
		queryFn: func(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
			return &fakeRows{values: [][]interface{}{
				{"running shoes", "/shoes", int64(50), int64(1000), 0.05, 8.2},
				{"trail shoes", "/trail", int64(10), int64(400), 0.025, 12.5},
			}}, nil
		},
	}
	repo := newTestRepo(db)

	rows, err := repo.Aggregated(context.Background(), "example.com", "2026-05-01", "2026-07-30", domain.GroupByQuery)
	if err != nil {
		t.Fatalf("Aggregated: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Query != "running shoes" || rows[0].Impressions != 1000 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}

	if len(db.queryCalls) != 1 {
		t.Fatalf("got %d queries, want 1", len(db.queryCalls))
	}
	call := db.queryCalls[0]
	if !strings.Contains(call.sql, "GROUP BY query, page") {
		t.Errorf("query grouping missing from SQL:\n%s", call.sql)
	}
	if len(call.args) != 3 || call.args[0] != "example.com" {
		t.Errorf("unexpected args: %v", call.args)
	}
}

func TestAggregated_GroupByPage(t *testing.T) {
	db := &mockDB{
		queryFn: func(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
			return &fakeRows{values: [][]interface{}{
				{"", "/shoes", int64(60), int64(1400), 0.043, 9.1},
			}}, nil
		},
	}
	repo := newTestRepo(db)

	rows, err := repo.Aggregated(context.Background(), "example.com", "2026-05-01", "2026-07-30", domain.GroupByPage)
	if err != nil {
		t.Fatalf("Aggregated: %v", err)
	}
	if rows[0].Query != "" || rows[0].Page != "/shoes" {
		t.Errorf("unexpected row: %+v", rows[0])
	}
	if !strings.Contains(db.queryCalls[0].sql, "GROUP BY page") {
		t.Errorf("page grouping missing from SQL:\n%s", db.queryCalls[0].sql)
	}
}

func TestAggregated_InvalidGroupBy(t *testing.T) {
	repo := newTestRepo(&mockDB{})
	_, err := repo.Aggregated(context.Background(), "example.com", "2026-05-01", "2026-07-30", "country")
	if !errors.Is(err, domain.ErrInvalidGroupBy) {
		t.Errorf("err = %v, want ErrInvalidGroupBy", err)
	}
}

func TestAggregated_SanitizesRows(t *testing.T) {
	// A zero-impression group must come back with defined zero CTR and
	// position, whatever the source produced.
	db := &mockDB{
		queryFn: func(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
			return &fakeRows{values: [][]interface{}{
				{"ghost query", "/ghost", int64(0), int64(0), 0.5, 3.0},
			}}, nil
		},
	}
	repo := newTestRepo(db)

	rows, err := repo.Aggregated(context.Background(), "example.com", "2026-05-01", "2026-07-30", domain.GroupByQuery)
	if err != nil {
		t.Fatalf("Aggregated: %v", err)
	}
	if rows[0].CTR != 0 || rows[0].Position != 0 {
		t.Errorf("row not sanitized: %+v", rows[0])
	}
}

func TestSaveRows_CountsUpserts(t *testing.T) {
	db := &mockDB{}
	repo := newTestRepo(db)

	n, err := repo.SaveRows(context.Background(), "example.com", []DailyRow{
		{Date: "2026-07-01", Query: "a", Page: "/a", Clicks: 1, Impressions: 10, CTR: 0.1, Position: 5},
		{Date: "2026-07-02", Query: "a", Page: "/a", Clicks: 2, Impressions: 12, CTR: 0.17, Position: 4.5},
	})
	if err != nil {
		t.Fatalf("SaveRows: %v", err)
	}
	if n != 2 {
		t.Errorf("saved = %d, want 2", n)
	}
	if len(db.execCalls) != 2 {
		t.Fatalf("got %d execs, want 2", len(db.execCalls))
	}
	if !strings.Contains(db.execCalls[0].sql, "ON CONFLICT (site_url, date, query, page)") {
		t.Errorf("upsert clause missing:\n%s", db.execCalls[0].sql)
	}
}

func TestDateRange_NoData(t *testing.T) {
	db := &mockDB{
		queryRowFn: func(ctx context.Context, sql string, args ...interface{}) pgx.Row {
			return &fakeRow{values: []interface{}{"", ""}}
		},
	}
	repo := newTestRepo(db)

	_, _, err := repo.DateRange(context.Background(), "example.com")
	if !errors.Is(err, domain.ErrSiteNotFound) {
		t.Errorf("err = %v, want ErrSiteNotFound", err)
	}
}

func TestDateRange_ReturnsBounds(t *testing.T) {
	db := &mockDB{
		queryRowFn: func(ctx context.Context, sql string, args ...interface{}) pgx.Row {
			return &fakeRow{values: []interface{}{"2026-01-03", "2026-07-30"}}
		},
	}
	repo := newTestRepo(db)

	start, end, err := repo.DateRange(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("DateRange: %v", err)
	}
	if start != "2026-01-03" || end != "2026-07-30" {
		t.Errorf("range = %q..%q", start, end)
	}
}

func TestHistorical_FilterArgs(t *testing.T) {
	db := &mockDB{}
	repo := newTestRepo(db)

	_, err := repo.Historical(context.Background(), "example.com", "2026-05-01", "2026-07-30", "running shoes", "")
	if err != nil {
		t.Fatalf("Historical: %v", err)
	}
	call := db.queryCalls[0]
	if !strings.Contains(call.sql, "AND query = $4") {
		t.Errorf("query filter missing:\n%s", call.sql)
	}
	if strings.Contains(call.sql, "AND page =") {
		t.Errorf("unexpected page filter:\n%s", call.sql)
	}
	if len(call.args) != 4 || call.args[3] != "running shoes" {
		t.Errorf("unexpected args: %v", call.args)
	}
}

func TestFinishSync_UnknownID(t *testing.T) {
	db := &mockDB{
		execFn: func(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
			return pgconn.CommandTag("UPDATE 0"), nil
		},
	}
	repo := newTestRepo(db)

	err := repo.FinishSync(context.Background(), "no-such-id", 0, domain.SyncFailed, "boom")
	if !errors.Is(err, domain.ErrSyncNotFound) {
		t.Errorf("err = %v, want ErrSyncNotFound", err)
	}
}

func TestStartSync_GeneratesID(t *testing.T) {
	db := &mockDB{}
	repo := newTestRepo(db)

	id, err := repo.StartSync(context.Background(), "example.com", "daily", "2026-07-01", "2026-07-30")
	if err != nil {
		t.Fatalf("StartSync: %v", err)
	}
	if id == "" {
		t.Error("empty sync id")
	}
	if got := db.execCalls[0].args[0]; got != id {
		t.Errorf("stored id %v, returned %v", got, id)
	}
}

func TestLastSync_NoCompletedRuns(t *testing.T) {
	repo := newTestRepo(&mockDB{})
	_, err := repo.LastSync(context.Background(), "example.com")
	if !errors.Is(err, domain.ErrSyncNotFound) {
		t.Errorf("err = %v, want ErrSyncNotFound", err)
	}
}

func TestLastSync_ScansRecord(t *testing.T) {
	completed := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	db := &mockDB{
		queryRowFn: func(ctx context.Context, sql string, args ...interface{}) pgx.Row {
			return &fakeRow{values: []interface{}{
				"abc-123", "example.com", "daily", "2026-07-01", "2026-07-30",
				int64(4200), "completed", "", completed.Add(-time.Minute), completed,
			}}
		},
	}
	repo := newTestRepo(db)

	rec, err := repo.LastSync(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("LastSync: %v", err)
	}
	if rec.ID != "abc-123" || rec.Status != domain.SyncCompleted {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !rec.CompletedAt.Equal(completed) {
		t.Errorf("CompletedAt = %v, want %v", rec.CompletedAt, completed)
	}
}

func TestSaveClusters_ReplacesAndEncodes(t *testing.T) {
	db := &mockDB{}
	repo := newTestRepo(db)

	err := repo.SaveClusters(context.Background(), "example.com", []StoredCluster{
		{
			Name: "marathon running shoes",
			Queries: []cluster.Record{
				{Query: "best marathon running shoes", Impressions: 300, Position: 24},
			},
			TotalImpressions: 300,
			BestPosition:     24,
			PageCount:        1,
		},
	})
	if err != nil {
		t.Fatalf("SaveClusters: %v", err)
	}
	if len(db.execCalls) != 2 {
		t.Fatalf("got %d execs, want delete + insert", len(db.execCalls))
	}
	if !strings.Contains(db.execCalls[0].sql, "DELETE FROM keyword_clusters") {
		t.Errorf("first exec is not the delete:\n%s", db.execCalls[0].sql)
	}

	raw, ok := db.execCalls[1].args[2].([]byte)
	if !ok {
		t.Fatalf("queries arg is %T, want []byte", db.execCalls[1].args[2])
	}
	var decoded []cluster.Record
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode queries: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Query != "best marathon running shoes" {
		t.Errorf("unexpected queries payload: %+v", decoded)
	}
}
