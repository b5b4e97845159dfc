package searchdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgx/v4"
)

// mockDB implements the database interface with optional function
// fields; unset fields succeed with empty results.
type mockDB struct {
	execFn     func(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	queryFn    func(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	queryRowFn func(ctx context.Context, sql string, args ...interface{}) pgx.Row
	pingFn     func(ctx context.Context) error

	execCalls  []execCall
	queryCalls []execCall
}

type execCall struct {
	sql  string
	args []interface{}
}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	m.execCalls = append(m.execCalls, execCall{sql: sql, args: args})
	if m.execFn != nil {
		return m.execFn(ctx, sql, args...)
	}
	return pgconn.CommandTag("INSERT 0 1"), nil
}

func (m *mockDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	m.queryCalls = append(m.queryCalls, execCall{sql: sql, args: args})
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return &fakeRows{}, nil
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return &fakeRow{err: pgx.ErrNoRows}
}

func (m *mockDB) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// fakeRows replays canned value tuples through the pgx.Rows interface.
type fakeRows struct {
	values [][]interface{}
	idx    int
	err    error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return nil }
func (r *fakeRows) FieldDescriptions() []pgproto3.FieldDescription { return nil }
func (r *fakeRows) Values() ([]interface{}, error)               { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.values) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	row := r.values[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(row))
	}
	for i, src := range row {
		if err := assign(dest[i], src); err != nil {
			return err
		}
	}
	return nil
}

// fakeRow is a single canned row for QueryRow.
type fakeRow struct {
	values []interface{}
	err    error
}

func (r *fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, src := range r.values {
		if err := assign(dest[i], src); err != nil {
			return err
		}
	}
	return nil
}

func assign(dest, src interface{}) error {
	switch d := dest.(type) {
	case *string:
		*d = src.(string)
	case *int64:
		switch v := src.(type) {
		case int64:
			*d = v
		case int:
			*d = int64(v)
		default:
			return fmt.Errorf("assign: %T into *int64", src)
		}
	case *float64:
		*d = src.(float64)
	case *time.Time:
		*d = src.(time.Time)
	case *sql.NullTime:
		switch v := src.(type) {
		case nil:
			*d = sql.NullTime{}
		case time.Time:
			*d = sql.NullTime{Time: v, Valid: true}
		default:
			return fmt.Errorf("assign: %T into *sql.NullTime", src)
		}
	case *[]byte:
		*d = src.([]byte)
	default:
		return fmt.Errorf("assign: unsupported destination %T", dest)
	}
	return nil
}

func newTestRepo(db *mockDB) *Repo {
	return &Repo{db: db}
}
