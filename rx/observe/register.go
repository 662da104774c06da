package observe

import (
	"context"

	"github.com/lguimbarda/reagent/rx/core"
)

// This file provides convenience functions for registering typed hooks on a
// context. The terminal functions (rx.Slice, rx.Await, rx.AwaitMaybe,
// rx.Wait) invoke hooks registered for their item type; Wait uses struct{}.
//
// Usage pattern:
//
//	ctx := observe.WithItemHook(ctx, func(v int) { fmt.Println("item:", v) })
//	ctx = observe.WithErrorHook[int](ctx, func(err error) { log.Print(err) })
//	items, err := rx.Slice(ctx, stream)

// WithItemHook attaches an item observation hook for type T to the context.
// The callback fires for each OnNext or OnItem.
func WithItemHook[T any](ctx context.Context, callback func(T)) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnItem: callback,
	})
}

// WithErrorHook attaches a terminal error hook for type T to the context.
func WithErrorHook[T any](ctx context.Context, callback func(error)) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnError: callback,
	})
}

// WithSubscribeHook attaches a hook that fires when a subscription starts.
func WithSubscribeHook[T any](ctx context.Context, callback func()) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnSubscribe: callback,
	})
}

// WithCompleteHook attaches a hook that fires when a Many or Task completes.
func WithCompleteHook[T any](ctx context.Context, callback func()) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnComplete: callback,
	})
}

// WithNothingHook attaches a hook that fires when a Maybe signals nothing.
func WithNothingHook[T any](ctx context.Context, callback func()) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnNothing: callback,
	})
}

// WithDisposeHook attaches a hook that fires when the consumer disposes,
// for example because ctx was cancelled.
func WithDisposeHook[T any](ctx context.Context, callback func()) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnDispose: callback,
	})
}

// WithCounters counts the notifications seen by terminal functions for type T.
func WithCounters[T any](ctx context.Context, c *Counters) context.Context {
	return core.WithHooks(ctx, Counted[T](c))
}
