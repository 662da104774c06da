package sql

import (
	"context"

	"github.com/lguimbarda/reagent/rx/core"
)

// subscription is the Disposable handed to subscribers. Disposing it cancels
// the context the statement runs with.
type subscription struct {
	core.Disposable
	ctx context.Context
}

// subscribe derives a per-subscription context from parent. The returned
// release func frees the context once the statement is done; it does not mark
// the subscription disposed.
func subscribe(parent context.Context) (*subscription, func()) {
	ctx, cancel := context.WithCancel(parent)
	return &subscription{Disposable: core.DisposableFunc(cancel), ctx: ctx}, cancel
}

// cursor is the part of *sql.Rows and *sqlx.Rows that row iteration needs.
type cursor interface {
	Next() bool
	Err() error
	Close() error
}

// drain scans every row and passes it to emit, stopping early once d is
// disposed. Rows are closed on return.
func drain[R cursor, T any](rows R, d core.Disposable, scan func(R) (T, error), emit func(T)) error {
	defer rows.Close()
	for rows.Next() {
		if d.IsDisposed() {
			return nil
		}
		item, err := scanRow(rows, scan)
		if err != nil {
			return err
		}
		emit(item)
	}
	return rows.Err()
}

// first scans the first row, if any, and closes rows.
func first[R cursor, T any](rows R, scan func(R) (T, error)) (T, bool, error) {
	defer rows.Close()
	var zero T
	if !rows.Next() {
		return zero, false, rows.Err()
	}
	item, err := scanRow(rows, scan)
	if err != nil {
		return zero, false, err
	}
	return item, true, nil
}

func scanRow[R any, T any](rows R, scan func(R) (T, error)) (item T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.NewPanicError(r)
		}
	}()
	return scan(rows)
}

func emitMaybe[T any](sub *subscription, s core.MaybeSubscriber[T], item T, ok bool, err error) {
	switch {
	case sub.IsDisposed():
	case err != nil:
		s.OnError(err)
	case ok:
		s.OnItem(item)
	default:
		s.OnNothing()
	}
}

func emitTask(sub *subscription, s core.TaskSubscriber, err error) {
	switch {
	case sub.IsDisposed():
	case err != nil:
		s.OnError(err)
	default:
		s.OnComplete()
	}
}
