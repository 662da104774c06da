// Package sql provides stream sources for database operations using
// database/sql, sqlx and goqu.
//
// The cardinality of a source follows from the statement:
//
//	Query, Select, Dataset   Many   every row
//	QueryRow                 One    first row; no row fails with sql.ErrNoRows
//	QueryMaybe, Get          Maybe  first row; no row signals nothing
//	Exec, ExecBuilder        Task   completes when the statement succeeds
//
// Statements run synchronously inside Subscribe, once per subscription, with
// a context derived from the one given at construction. Disposing the
// subscription cancels that context. Rows are closed before the terminal
// notification is sent, so a subscriber may issue further statements from
// OnComplete even on a single-connection pool.
package sql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lguimbarda/reagent/rx/core"
)

// Scanner converts the current row into a value.
type Scanner[T any] func(*sql.Rows) (T, error)

// Querier runs queries. *sql.DB, *sql.Conn, *sql.Tx and *sqlx.DB implement it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Execer runs statements. *sql.DB, *sql.Conn, *sql.Tx and *sqlx.DB implement it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Query creates a Many that emits one value per row, then completes.
func Query[T any](ctx context.Context, db Querier, query string, scan Scanner[T], args ...any) core.Many[T] {
	return core.ManyFunc[T](func(s core.ManySubscriber[T]) {
		sub, done := subscribe(ctx)
		defer done()
		s.OnSubscribe(sub)
		if sub.IsDisposed() {
			return
		}

		err := func() error {
			rows, err := db.QueryContext(sub.ctx, query, args...)
			if err != nil {
				return err
			}
			return drain(rows, sub, scan, s.OnNext)
		}()
		if sub.IsDisposed() {
			return
		}
		if err != nil {
			s.OnError(err)
			return
		}
		s.OnComplete()
	})
}

// QueryRow creates a One from the first row of query.
// It fails with sql.ErrNoRows when the query returns no rows.
func QueryRow[T any](ctx context.Context, db Querier, query string, scan Scanner[T], args ...any) core.One[T] {
	return core.OneFunc[T](func(s core.OneSubscriber[T]) {
		sub, done := subscribe(ctx)
		defer done()
		s.OnSubscribe(sub)
		if sub.IsDisposed() {
			return
		}

		item, ok, err := firstRow(sub, db, query, scan, args)
		if sub.IsDisposed() {
			return
		}
		if err == nil && !ok {
			err = sql.ErrNoRows
		}
		if err != nil {
			s.OnError(err)
			return
		}
		s.OnItem(item)
	})
}

// QueryMaybe creates a Maybe from the first row of query.
// It signals nothing when the query returns no rows.
func QueryMaybe[T any](ctx context.Context, db Querier, query string, scan Scanner[T], args ...any) core.Maybe[T] {
	return core.MaybeFunc[T](func(s core.MaybeSubscriber[T]) {
		sub, done := subscribe(ctx)
		defer done()
		s.OnSubscribe(sub)
		if sub.IsDisposed() {
			return
		}

		item, ok, err := firstRow(sub, db, query, scan, args)
		emitMaybe(sub, s, item, ok, err)
	})
}

// Exec creates a Task that runs a statement.
func Exec(ctx context.Context, db Execer, query string, args ...any) core.Task {
	return core.TaskFunc(func(s core.TaskSubscriber) {
		sub, done := subscribe(ctx)
		defer done()
		s.OnSubscribe(sub)
		if sub.IsDisposed() {
			return
		}

		_, err := db.ExecContext(sub.ctx, query, args...)
		emitTask(sub, s, err)
	})
}

// ExecResult contains the result of an exec operation.
type ExecResult struct {
	LastInsertID int64
	RowsAffected int64
}

// ExecWithResult creates a One that runs a statement and emits its result.
// Drivers that do not report LastInsertId or RowsAffected leave them zero.
func ExecWithResult(ctx context.Context, db Execer, query string, args ...any) core.One[ExecResult] {
	return core.OneFunc[ExecResult](func(s core.OneSubscriber[ExecResult]) {
		sub, done := subscribe(ctx)
		defer done()
		s.OnSubscribe(sub)
		if sub.IsDisposed() {
			return
		}

		result, err := db.ExecContext(sub.ctx, query, args...)
		if sub.IsDisposed() {
			return
		}
		if err != nil {
			s.OnError(err)
			return
		}
		lastID, _ := result.LastInsertId()
		rowsAffected, _ := result.RowsAffected()
		s.OnItem(ExecResult{LastInsertID: lastID, RowsAffected: rowsAffected})
	})
}

// Transaction creates a One that runs fn inside a transaction and emits its
// result. The transaction is rolled back if fn fails or panics, or if the
// subscription is disposed before fn returns; otherwise it is committed.
func Transaction[T any](ctx context.Context, db *sql.DB, fn func(context.Context, *sql.Tx) (T, error)) core.One[T] {
	return core.OneFunc[T](func(s core.OneSubscriber[T]) {
		sub, done := subscribe(ctx)
		defer done()
		s.OnSubscribe(sub)
		if sub.IsDisposed() {
			return
		}

		item, err := func() (T, error) {
			var zero T
			tx, err := db.BeginTx(sub.ctx, nil)
			if err != nil {
				return zero, err
			}
			item, err := callTx(sub.ctx, tx, fn)
			if err == nil && sub.IsDisposed() {
				err = context.Canceled
			}
			if err != nil {
				if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
					err = errors.Join(err, rbErr)
				}
				return zero, err
			}
			return item, tx.Commit()
		}()
		if sub.IsDisposed() {
			return
		}
		if err != nil {
			s.OnError(err)
			return
		}
		s.OnItem(item)
	})
}

// QueryMaps creates a Many that emits each row as a map from column name to
// the driver's value.
func QueryMaps(ctx context.Context, db Querier, query string, args ...any) core.Many[map[string]any] {
	return Query(ctx, db, query, func(rows *sql.Rows) (map[string]any, error) {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		result := make(map[string]any, len(cols))
		for i, col := range cols {
			result[col] = values[i]
		}
		return result, nil
	}, args...)
}

func firstRow[T any](sub *subscription, db Querier, query string, scan Scanner[T], args []any) (T, bool, error) {
	var zero T
	rows, err := db.QueryContext(sub.ctx, query, args...)
	if err != nil {
		return zero, false, err
	}
	return first(rows, scan)
}

func callTx[T any](ctx context.Context, tx *sql.Tx, fn func(context.Context, *sql.Tx) (T, error)) (item T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.NewPanicError(r)
		}
	}()
	return fn(ctx, tx)
}
