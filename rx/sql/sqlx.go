package sql

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/lguimbarda/reagent/rx/core"
)

// Select creates a Many that scans each row into a T with sqlx StructScan.
// T must be a struct whose db tags name the selected columns.
func Select[T any](ctx context.Context, db sqlx.QueryerContext, query string, args ...any) core.Many[T] {
	return selectMany[T](ctx, db, func() (string, []any, error) {
		return query, args, nil
	})
}

// Get creates a Maybe that scans the first row into a T with sqlx StructScan.
// It signals nothing when the query returns no rows.
func Get[T any](ctx context.Context, db sqlx.QueryerContext, query string, args ...any) core.Maybe[T] {
	return core.MaybeFunc[T](func(s core.MaybeSubscriber[T]) {
		sub, done := subscribe(ctx)
		defer done()
		s.OnSubscribe(sub)
		if sub.IsDisposed() {
			return
		}

		item, ok, err := func() (T, bool, error) {
			rows, err := db.QueryxContext(sub.ctx, query, args...)
			if err != nil {
				var zero T
				return zero, false, err
			}
			return first(rows, structScan[T])
		}()
		emitMaybe(sub, s, item, ok, err)
	})
}

// Builder renders a SQL statement. goqu datasets implement it.
type Builder interface {
	ToSQL() (string, []any, error)
}

// Dataset creates a Many from a goqu select dataset, scanning each row into a
// T with sqlx StructScan. The dataset is rendered on every subscription; a
// rendering error is delivered through OnError.
func Dataset[T any](ctx context.Context, db sqlx.QueryerContext, ds *goqu.SelectDataset) core.Many[T] {
	return selectMany[T](ctx, db, func() (string, []any, error) {
		return render(ds)
	})
}

// ExecBuilder creates a Task that renders b and runs the statement, typically
// a goqu insert, update or delete dataset.
func ExecBuilder(ctx context.Context, db Execer, b Builder) core.Task {
	return core.TaskFunc(func(s core.TaskSubscriber) {
		sub, done := subscribe(ctx)
		defer done()
		s.OnSubscribe(sub)
		if sub.IsDisposed() {
			return
		}

		err := func() error {
			query, args, err := render(b)
			if err != nil {
				return err
			}
			_, err = db.ExecContext(sub.ctx, query, args...)
			return err
		}()
		emitTask(sub, s, err)
	})
}

func selectMany[T any](ctx context.Context, db sqlx.QueryerContext, build func() (string, []any, error)) core.Many[T] {
	return core.ManyFunc[T](func(s core.ManySubscriber[T]) {
		sub, done := subscribe(ctx)
		defer done()
		s.OnSubscribe(sub)
		if sub.IsDisposed() {
			return
		}

		err := func() error {
			query, args, err := build()
			if err != nil {
				return err
			}
			rows, err := db.QueryxContext(sub.ctx, query, args...)
			if err != nil {
				return err
			}
			return drain(rows, sub, structScan[T], s.OnNext)
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

func render(b Builder) (string, []any, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("render statement: %w", err)
	}
	return query, args, nil
}

func structScan[T any](rows *sqlx.Rows) (T, error) {
	var item T
	err := rows.StructScan(&item)
	return item, err
}
