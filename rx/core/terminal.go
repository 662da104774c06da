package core

import (
	"context"
	"sync"
)

// Terminal functions subscribe to a producer and block until it terminates,
// turning the push protocol back into ordinary Go return values.
// Cancelling ctx disposes the subscription and returns ctx.Err().
// Hooks attached to ctx with WithHooks observe every notification.

// Slice collects every item of a Many.
// It returns the upstream error if the Many fails.
func Slice[T any](ctx context.Context, in Many[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := newWaiter(ctx)
	defer w.stop()

	var items []T
	var s ManySubscriber[T] = ManyFuncs[T]{
		Subscribe: w.ref.set,
		Next:      func(v T) { items = append(items, v) },
		Complete:  func() { w.finish(nil) },
		Error:     w.finish,
	}
	if hooks, ok := HooksFrom[T](ctx); ok {
		s = HookMany(s, hooks)
	}

	in.Subscribe(s)
	if err := w.wait(ctx); err != nil {
		return nil, err
	}
	return items, nil
}

// ForEach calls fn for every item of a Many as it arrives. If fn returns an
// error, the subscription is disposed and ForEach returns that error.
func ForEach[T any](ctx context.Context, in Many[T], fn func(T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w := newWaiter(ctx)
	defer w.stop()

	stopped := false
	var s ManySubscriber[T] = ManyFuncs[T]{
		Subscribe: w.ref.set,
		Next: func(v T) {
			if stopped {
				return
			}
			if err := fn(v); err != nil {
				stopped = true
				w.ref.Dispose()
				w.finish(err)
			}
		},
		Complete: func() { w.finish(nil) },
		Error:    w.finish,
	}
	if hooks, ok := HooksFrom[T](ctx); ok {
		s = HookMany(s, hooks)
	}

	in.Subscribe(s)
	return w.wait(ctx)
}

// Await returns the item of a One.
func Await[T any](ctx context.Context, in One[T]) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	w := newWaiter(ctx)
	defer w.stop()

	var item T
	var s OneSubscriber[T] = OneFuncs[T]{
		Subscribe: w.ref.set,
		Item:      func(v T) { item = v; w.finish(nil) },
		Error:     w.finish,
	}
	if hooks, ok := HooksFrom[T](ctx); ok {
		s = HookOne(s, hooks)
	}

	in.Subscribe(s)
	if err := w.wait(ctx); err != nil {
		return zero, err
	}
	return item, nil
}

// AwaitMaybe returns the item of a Maybe and true, or the zero value and
// false when the Maybe signals OnNothing.
func AwaitMaybe[T any](ctx context.Context, in Maybe[T]) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	w := newWaiter(ctx)
	defer w.stop()

	var (
		item T
		ok   bool
	)
	var s MaybeSubscriber[T] = MaybeFuncs[T]{
		Subscribe: w.ref.set,
		Item:      func(v T) { item, ok = v, true; w.finish(nil) },
		Nothing:   func() { w.finish(nil) },
		Error:     w.finish,
	}
	if hooks, found := HooksFrom[T](ctx); found {
		s = HookMaybe(s, hooks)
	}

	in.Subscribe(s)
	if err := w.wait(ctx); err != nil {
		return zero, false, err
	}
	return item, ok, nil
}

// AwaitItem is AwaitMaybe for callers that require an item: OnNothing is
// reported as ErrEmpty.
func AwaitItem[T any](ctx context.Context, in Maybe[T]) (T, error) {
	item, ok, err := AwaitMaybe(ctx, in)
	if err != nil {
		return item, err
	}
	if !ok {
		return item, ErrEmpty
	}
	return item, nil
}

// Wait blocks until a Task completes and returns its error, if any.
func Wait(ctx context.Context, in Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w := newWaiter(ctx)
	defer w.stop()

	var s TaskSubscriber = TaskFuncs{
		Subscribe: w.ref.set,
		Complete:  func() { w.finish(nil) },
		Error:     w.finish,
	}
	if hooks, ok := HooksFrom[struct{}](ctx); ok {
		s = HookTask(s, hooks)
	}

	in.Subscribe(s)
	return w.wait(ctx)
}

// waiter turns the first terminal notification into the result of a
// blocking call. Later terminal notifications are ignored.
type waiter struct {
	ref  disposableRef
	done chan struct{}
	once sync.Once
	err  error
	stop func() bool
}

func newWaiter(ctx context.Context) *waiter {
	w := &waiter{done: make(chan struct{})}
	// Dispose on cancellation even while a synchronous producer is still
	// emitting inside Subscribe.
	w.stop = context.AfterFunc(ctx, w.ref.Dispose)
	return w
}

func (w *waiter) finish(err error) {
	w.once.Do(func() {
		w.err = err
		close(w.done)
	})
}

func (w *waiter) wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		w.ref.Dispose()
		return ctx.Err()
	}
}
