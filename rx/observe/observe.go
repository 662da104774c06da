// Package observe provides operators for watching a stream without changing
// it: every operator returns the kind it wraps (Many stays Many, Task stays
// Task) and forwards each notification unchanged after running its hooks.
//
// Hooks come from plain core.Hooks values, from the in-process Counters, from
// OpenTelemetry instruments (Metered) or from a slog.Logger (Logged).
package observe

import (
	"github.com/lguimbarda/reagent/rx/core"
)

// TaskHooks observes a Task, which has no items.
type TaskHooks = core.Hooks[struct{}]

// Many runs hooks for every notification of every subscription to upstream.
func Many[T any](upstream core.Many[T], hooks core.Hooks[T]) core.Many[T] {
	return ManyEach(upstream, static(hooks))
}

// ManyEach calls newHooks once per subscription, so that hooks can keep
// per-subscription state.
func ManyEach[T any](upstream core.Many[T], newHooks func() core.Hooks[T]) core.Many[T] {
	return core.ManyFunc[T](func(s core.ManySubscriber[T]) {
		upstream.Subscribe(core.HookMany(s, newHooks()))
	})
}

// Maybe runs hooks for every notification of every subscription to upstream.
func Maybe[T any](upstream core.Maybe[T], hooks core.Hooks[T]) core.Maybe[T] {
	return MaybeEach(upstream, static(hooks))
}

// MaybeEach calls newHooks once per subscription.
func MaybeEach[T any](upstream core.Maybe[T], newHooks func() core.Hooks[T]) core.Maybe[T] {
	return core.MaybeFunc[T](func(s core.MaybeSubscriber[T]) {
		upstream.Subscribe(core.HookMaybe(s, newHooks()))
	})
}

// One runs hooks for every notification of every subscription to upstream.
func One[T any](upstream core.One[T], hooks core.Hooks[T]) core.One[T] {
	return OneEach(upstream, static(hooks))
}

// OneEach calls newHooks once per subscription.
func OneEach[T any](upstream core.One[T], newHooks func() core.Hooks[T]) core.One[T] {
	return core.OneFunc[T](func(s core.OneSubscriber[T]) {
		upstream.Subscribe(core.HookOne(s, newHooks()))
	})
}

// Task runs hooks for every notification of every subscription to upstream.
func Task(upstream core.Task, hooks TaskHooks) core.Task {
	return TaskEach(upstream, static(hooks))
}

// TaskEach calls newHooks once per subscription.
func TaskEach(upstream core.Task, newHooks func() TaskHooks) core.Task {
	return core.TaskFunc(func(s core.TaskSubscriber) {
		upstream.Subscribe(core.HookTask(s, newHooks()))
	})
}

// Merge combines hook sets; each notification runs them in order.
func Merge[T any](hooks ...core.Hooks[T]) core.Hooks[T] {
	return core.MergeHooks(hooks...)
}

// Safe wraps hooks so that a panicking hook is reported to panicHandler
// instead of unwinding through the producer. A nil panicHandler drops panics.
func Safe[T any](hooks core.Hooks[T], panicHandler func(any)) core.Hooks[T] {
	return core.NewSafeHooks(hooks, panicHandler).Hooks
}

func static[T any](hooks core.Hooks[T]) func() core.Hooks[T] {
	return func() core.Hooks[T] { return hooks }
}
