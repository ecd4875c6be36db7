// Package dbtest provides a scripted database.DB for repository tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"skill-swap/internal/database"
)

type Call struct {
	Kind string
	SQL  string
	Args []any
}

// DB answers every statement through the hook functions. Hooks left nil
// return zero results.
type DB struct {
	mu    sync.Mutex
	Calls []Call

	ExecFn     func(sql string, args []any) (int64, error)
	QueryFn    func(sql string, args []any) (database.Rows, error)
	QueryRowFn func(sql string, args []any) database.Row

	Commits   int
	Rollbacks int
}

var _ database.DB = (*DB)(nil)

func (d *DB) record(kind, q string, args []any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, Call{Kind: kind, SQL: strings.Join(strings.Fields(q), " "), Args: args})
}

// Statements returns the recorded SQL of the given kind, whitespace collapsed.
func (d *DB) Statements(kind string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.Calls))
	for _, c := range d.Calls {
		if kind == "" || c.Kind == kind {
			out = append(out, c.SQL)
		}
	}
	return out
}

func (d *DB) Ping(context.Context) error { return nil }
func (d *DB) Close() error               { return nil }
func (d *DB) SQLDB() *sql.DB             { return nil }

func (d *DB) Exec(_ context.Context, q string, args ...any) (int64, error) {
	d.record("exec", q, args)
	if d.ExecFn == nil {
		return 0, nil
	}
	return d.ExecFn(q, args)
}

func (d *DB) Query(_ context.Context, q string, args ...any) (database.Rows, error) {
	d.record("query", q, args)
	if d.QueryFn == nil {
		return &Rows{}, nil
	}
	return d.QueryFn(q, args)
}

func (d *DB) QueryRow(_ context.Context, q string, args ...any) database.Row {
	d.record("queryrow", q, args)
	if d.QueryRowFn == nil {
		return Row{Err: database.ErrNoRows}
	}
	return d.QueryRowFn(q, args)
}

func (d *DB) Begin(context.Context) (database.Tx, error) {
	return &tx{db: d}, nil
}

type tx struct {
	db   *DB
	done bool
}

func (t *tx) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	return t.db.Exec(ctx, q, args...)
}

func (t *tx) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, q, args...)
}

func (t *tx) QueryRow(ctx context.Context, q string, args ...any) database.Row {
	return t.db.QueryRow(ctx, q, args...)
}

func (t *tx) Commit(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.db.mu.Lock()
	t.db.Commits++
	t.db.mu.Unlock()
	return nil
}

func (t *tx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.db.mu.Lock()
	t.db.Rollbacks++
	t.db.mu.Unlock()
	return nil
}

// Row scans Values into the destinations in order.
type Row struct {
	Values []any
	Err    error
}

func (r Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(dest, r.Values)
}

type Rows struct {
	Data    [][]any
	IterErr error
	pos     int
}

func (r *Rows) Close() {}

func (r *Rows) Next() bool {
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.pos == 0 || r.pos > len(r.Data) {
		return fmt.Errorf("dbtest: scan without row")
	}
	return assign(dest, r.Data[r.pos-1])
}

func (r *Rows) Err() error { return r.IterErr }

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("dbtest: %d destinations for %d values", len(dest), len(values))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("dbtest: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		switch {
		case v.Type().AssignableTo(target.Type()):
			target.Set(v)
		case target.Kind() == reflect.Pointer && v.Type().AssignableTo(target.Type().Elem()):
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(v)
			target.Set(p)
		case v.Type().ConvertibleTo(target.Type()):
			target.Set(v.Convert(target.Type()))
		default:
			return fmt.Errorf("dbtest: cannot assign %T to %s", values[i], target.Type())
		}
	}
	return nil
}
