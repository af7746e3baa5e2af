package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assignValues(r.values, dest)
}

type stubRows struct {
	rows   [][]any
	index  int
	closed bool
	err    error
}

func (r *stubRows) Close() { r.closed = true }
func (r *stubRows) Err() error { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) RawValues() [][]byte { return nil }
func (r *stubRows) Conn() *pgx.Conn { return nil }

func (r *stubRows) Next() bool {
	if r.index >= len(r.rows) {
		return false
	}
	r.index++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	return assignValues(r.rows[r.index-1], dest)
}

func (r *stubRows) Values() ([]any, error) {
	return r.rows[r.index-1], nil
}

type execCall struct {
	query string
	args  []any
}

type stubDBTX struct {
	execTag    pgconn.CommandTag
	execErr    error
	execCalls  []execCall
	queryRowFn func(ctx context.Context, query string, args ...any) stubRow
	queryFn    func(ctx context.Context, query string, args ...any) (*stubRows, error)
}

func (db *stubDBTX) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	db.execCalls = append(db.execCalls, execCall{query: query, args: args})
	return db.execTag, db.execErr
}

func (db *stubDBTX) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if db.queryFn == nil {
		return nil, errors.New("unexpected query")
	}
	rows, err := db.queryFn(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (db *stubDBTX) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if db.queryRowFn == nil {
		return stubRow{err: errors.New("unexpected query row")}
	}
	return db.queryRowFn(ctx, query, args...)
}

// assignValues copies values into scan targets. A nil value leaves the zero
// value of the target, which is how NULL scans into a pointer.
func assignValues(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values for %d targets", len(values), len(dest))
	}
	for i, target := range dest {
		ptr := reflect.ValueOf(target)
		if ptr.Kind() != reflect.Pointer || ptr.IsNil() {
			return fmt.Errorf("scan target %d is not a pointer", i)
		}
		elem := ptr.Elem()
		if values[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		value := reflect.ValueOf(values[i])
		if !value.Type().AssignableTo(elem.Type()) {
			return fmt.Errorf("scan target %d: cannot assign %s to %s", i, value.Type(), elem.Type())
		}
		elem.Set(value)
	}
	return nil
}
