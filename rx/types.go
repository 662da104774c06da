// Package rx provides push-based streams whose Go type states how many items
// they may emit: Many (0..N), Maybe (0..1), One (exactly 1) and Task (none).
//
// This package is the primary user-facing API. Most users should only
// need to import this package and the operator packages such as rx/filter.
// The rx/core subpackage contains the protocol definitions that operator
// authors implement against.
package rx

import (
	"context"

	"github.com/lguimbarda/reagent/rx/core"
)

// Type aliases for the core protocol.
// These allow users to work with the library without importing core directly.
type (
	// Disposable cancels a subscription. Dispose is idempotent.
	Disposable = core.Disposable

	// Kind tags a producer with its cardinality for logging and metrics.
	Kind = core.Kind

	// Many emits zero or more items, then completes or fails.
	Many[T any] = core.Many[T]
	// Maybe emits one item, signals nothing, or fails.
	Maybe[T any] = core.Maybe[T]
	// One emits exactly one item or fails.
	One[T any] = core.One[T]
	// Task emits no items; it completes or fails.
	Task = core.Task

	ManySubscriber[T any]  = core.ManySubscriber[T]
	MaybeSubscriber[T any] = core.MaybeSubscriber[T]
	OneSubscriber[T any]   = core.OneSubscriber[T]
	TaskSubscriber         = core.TaskSubscriber

	ManyFunc[T any]  = core.ManyFunc[T]
	MaybeFunc[T any] = core.MaybeFunc[T]
	OneFunc[T any]   = core.OneFunc[T]
	TaskFunc         = core.TaskFunc

	ManyFuncs[T any]  = core.ManyFuncs[T]
	MaybeFuncs[T any] = core.MaybeFuncs[T]
	OneFuncs[T any]   = core.OneFuncs[T]
	TaskFuncs         = core.TaskFuncs

	// Hooks holds optional observation callbacks for a subscription.
	Hooks[T any] = core.Hooks[T]

	// ErrPanic wraps a panic raised by a user callback.
	ErrPanic = core.ErrPanic
)

const (
	KindMany  = core.KindMany
	KindMaybe = core.KindMaybe
	KindOne   = core.KindOne
	KindTask  = core.KindTask
)

// ErrEmpty is returned by AwaitItem when the Maybe signals nothing.
var ErrEmpty = core.ErrEmpty

// NewDisposable creates a Disposable that records whether it was disposed.
func NewDisposable() Disposable {
	return core.NewDisposable()
}

// DisposableFunc creates a Disposable that runs fn on the first Dispose.
func DisposableFunc(fn func()) Disposable {
	return core.DisposableFunc(fn)
}

// WithHooks attaches hooks to ctx for the terminal functions below.
func WithHooks[T any](ctx context.Context, hooks Hooks[T]) context.Context {
	return core.WithHooks(ctx, hooks)
}

// Terminal operations.

// Slice collects all items of a Many.
func Slice[T any](ctx context.Context, in Many[T]) ([]T, error) {
	return core.Slice(ctx, in)
}

// ForEach calls fn for every item of a Many, stopping at fn's first error.
func ForEach[T any](ctx context.Context, in Many[T], fn func(T) error) error {
	return core.ForEach(ctx, in, fn)
}

// Await returns the item of a One.
func Await[T any](ctx context.Context, in One[T]) (T, error) {
	return core.Await(ctx, in)
}

// AwaitMaybe returns the item of a Maybe, with false when it signals nothing.
func AwaitMaybe[T any](ctx context.Context, in Maybe[T]) (T, bool, error) {
	return core.AwaitMaybe(ctx, in)
}

// AwaitItem returns the item of a Maybe, or ErrEmpty when it signals nothing.
func AwaitItem[T any](ctx context.Context, in Maybe[T]) (T, error) {
	return core.AwaitItem(ctx, in)
}

// Wait blocks until a Task terminates.
func Wait(ctx context.Context, in Task) error {
	return core.Wait(ctx, in)
}
