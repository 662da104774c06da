package rx

import (
	"iter"

	"github.com/lguimbarda/reagent/rx/core"
)

// Sources emit synchronously inside Subscribe unless stated otherwise, and
// check the subscription's Disposable before every notification.

// FromSlice creates a Many that emits each element of items, then completes.
func FromSlice[T any](items []T) Many[T] {
	return core.ManyFunc[T](func(s core.ManySubscriber[T]) {
		d := core.NewDisposable()
		s.OnSubscribe(d)
		for _, item := range items {
			if d.IsDisposed() {
				return
			}
			s.OnNext(item)
		}
		if !d.IsDisposed() {
			s.OnComplete()
		}
	})
}

// Of creates a Many from its arguments.
func Of[T any](items ...T) Many[T] {
	return FromSlice(items)
}

// FromSeq creates a Many from an iterator sequence. The sequence is iterated
// anew for every subscription and stopped early on dispose.
func FromSeq[T any](seq iter.Seq[T]) Many[T] {
	return core.ManyFunc[T](func(s core.ManySubscriber[T]) {
		d := core.NewDisposable()
		s.OnSubscribe(d)
		for item := range seq {
			if d.IsDisposed() {
				return
			}
			s.OnNext(item)
		}
		if !d.IsDisposed() {
			s.OnComplete()
		}
	})
}

// Range creates a Many that emits count consecutive integers from start.
func Range(start, count int) Many[int] {
	return FromSeq(func(yield func(int) bool) {
		for i := start; i < start+count; i++ {
			if !yield(i) {
				return
			}
		}
	})
}

// FromChannel creates a Many that emits values received from ch on a separate
// goroutine and completes when ch is closed. Disposing stops the goroutine;
// values still in ch are left there.
// The caller is responsible for closing ch.
func FromChannel[T any](ch <-chan T) Many[T] {
	return core.ManyFunc[T](func(s core.ManySubscriber[T]) {
		stop := make(chan struct{})
		d := core.DisposableFunc(func() { close(stop) })
		s.OnSubscribe(d)

		go func() {
			for {
				select {
				case <-stop:
					return
				case item, ok := <-ch:
					if !ok {
						if !d.IsDisposed() {
							s.OnComplete()
						}
						return
					}
					if d.IsDisposed() {
						return
					}
					s.OnNext(item)
				}
			}
		}()
	})
}

// Empty creates a Many that completes without emitting.
func Empty[T any]() Many[T] {
	return FromSlice[T](nil)
}

// ManyError creates a Many that fails immediately with err.
func ManyError[T any](err error) Many[T] {
	return core.ManyFunc[T](func(s core.ManySubscriber[T]) {
		d := core.NewDisposable()
		s.OnSubscribe(d)
		if !d.IsDisposed() {
			s.OnError(err)
		}
	})
}

// JustMaybe creates a Maybe that emits item.
func JustMaybe[T any](item T) Maybe[T] {
	return MaybeFrom(func() (T, bool, error) { return item, true, nil })
}

// Nothing creates a Maybe that signals OnNothing.
func Nothing[T any]() Maybe[T] {
	return MaybeFrom(func() (T, bool, error) {
		var zero T
		return zero, false, nil
	})
}

// MaybeError creates a Maybe that fails immediately with err.
func MaybeError[T any](err error) Maybe[T] {
	return MaybeFrom(func() (T, bool, error) {
		var zero T
		return zero, false, err
	})
}

// MaybeFrom creates a Maybe that calls fn on every subscription.
// fn reports (item, true, nil) for an item, (_, false, nil) for nothing, or a
// non-nil error. A panic in fn becomes the terminal error.
func MaybeFrom[T any](fn func() (T, bool, error)) Maybe[T] {
	return core.MaybeFunc[T](func(s core.MaybeSubscriber[T]) {
		d := core.NewDisposable()
		s.OnSubscribe(d)
		if d.IsDisposed() {
			return
		}
		item, ok, err := callMaybe(fn)
		if d.IsDisposed() {
			return
		}
		switch {
		case err != nil:
			s.OnError(err)
		case ok:
			s.OnItem(item)
		default:
			s.OnNothing()
		}
	})
}

// Just creates a One that emits item.
func Just[T any](item T) One[T] {
	return OneFrom(func() (T, error) { return item, nil })
}

// OneError creates a One that fails immediately with err.
func OneError[T any](err error) One[T] {
	return OneFrom(func() (T, error) {
		var zero T
		return zero, err
	})
}

// OneFrom creates a One that calls fn on every subscription.
// A panic in fn becomes the terminal error.
func OneFrom[T any](fn func() (T, error)) One[T] {
	return core.OneFunc[T](func(s core.OneSubscriber[T]) {
		d := core.NewDisposable()
		s.OnSubscribe(d)
		if d.IsDisposed() {
			return
		}
		item, _, err := callMaybe(func() (T, bool, error) {
			v, err := fn()
			return v, true, err
		})
		if d.IsDisposed() {
			return
		}
		if err != nil {
			s.OnError(err)
			return
		}
		s.OnItem(item)
	})
}

// Complete creates a Task that completes immediately.
func Complete() Task {
	return TaskFrom(func() error { return nil })
}

// TaskError creates a Task that fails immediately with err.
func TaskError(err error) Task {
	return TaskFrom(func() error { return err })
}

// TaskFrom creates a Task that runs fn on every subscription and completes
// when fn returns nil. A panic in fn becomes the terminal error.
func TaskFrom(fn func() error) Task {
	return core.TaskFunc(func(s core.TaskSubscriber) {
		d := core.NewDisposable()
		s.OnSubscribe(d)
		if d.IsDisposed() {
			return
		}
		_, _, err := callMaybe(func() (struct{}, bool, error) {
			return struct{}{}, true, fn()
		})
		if d.IsDisposed() {
			return
		}
		if err != nil {
			s.OnError(err)
			return
		}
		s.OnComplete()
	})
}

func callMaybe[T any](fn func() (T, bool, error)) (item T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.NewPanicError(r)
		}
	}()
	return fn()
}
