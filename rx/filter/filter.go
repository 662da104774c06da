// Package filter provides the filter operator for every cardinality that
// carries items.
//
// Filtering removes items, so the kind it returns is derived from the kind it
// wraps:
//
//	Many  -> Many   rejected items are dropped
//	Maybe -> Maybe  a rejected item becomes OnNothing
//	One   -> Maybe  a One can no longer promise an item once filtered
//
// There is no filter for a Task: it has no items to test, and since Task is
// not a Many, Maybe or One, passing one to these functions does not compile.
//
// Filter decorators forward OnSubscribe with the upstream's Disposable
// unchanged, add no goroutine, lock or buffer, and evaluate the predicate
// exactly once per item on the notifying call stack.
//
// If the predicate panics or, for the Err variants, returns an error, the
// upstream subscription is disposed and the failure is delivered downstream
// as the terminal OnError. A panic is reported as core.ErrPanic.
package filter

import (
	"github.com/lguimbarda/reagent/rx/core"
)

// Many creates a Many that emits only the upstream items matching predicate.
// Terminal notifications are forwarded unchanged.
func Many[T any](upstream core.Many[T], predicate func(T) bool) core.Many[T] {
	return ManyErr(upstream, infallible(predicate))
}

// ManyErr is Many with a predicate that can fail.
func ManyErr[T any](upstream core.Many[T], predicate func(T) (bool, error)) core.Many[T] {
	return &manyFilter[T]{upstream: upstream, predicate: predicate}
}

// ExcludeMany creates a Many that drops the upstream items matching predicate.
// This is the inverse of Many.
func ExcludeMany[T any](upstream core.Many[T], predicate func(T) bool) core.Many[T] {
	return Many(upstream, not(predicate))
}

// Maybe creates a Maybe that emits the upstream item if it matches predicate
// and signals OnNothing otherwise. An upstream OnNothing is forwarded without
// evaluating the predicate.
func Maybe[T any](upstream core.Maybe[T], predicate func(T) bool) core.Maybe[T] {
	return MaybeErr(upstream, infallible(predicate))
}

// MaybeErr is Maybe with a predicate that can fail.
func MaybeErr[T any](upstream core.Maybe[T], predicate func(T) (bool, error)) core.Maybe[T] {
	return &maybeFilter[T]{upstream: upstream, predicate: predicate}
}

// ExcludeMaybe is the inverse of Maybe.
func ExcludeMaybe[T any](upstream core.Maybe[T], predicate func(T) bool) core.Maybe[T] {
	return Maybe(upstream, not(predicate))
}

// One creates a Maybe that emits the upstream item if it matches predicate and
// signals OnNothing otherwise. The result is a Maybe because a filtered One
// can no longer guarantee an item. An upstream OnError is forwarded without
// evaluating the predicate.
func One[T any](upstream core.One[T], predicate func(T) bool) core.Maybe[T] {
	return OneErr(upstream, infallible(predicate))
}

// OneErr is One with a predicate that can fail.
func OneErr[T any](upstream core.One[T], predicate func(T) (bool, error)) core.Maybe[T] {
	return &oneFilter[T]{upstream: upstream, predicate: predicate}
}

// ExcludeOne is the inverse of One.
func ExcludeOne[T any](upstream core.One[T], predicate func(T) bool) core.Maybe[T] {
	return One(upstream, not(predicate))
}

func infallible[T any](predicate func(T) bool) func(T) (bool, error) {
	return func(item T) (bool, error) { return predicate(item), nil }
}

func not[T any](predicate func(T) bool) func(T) bool {
	return func(item T) bool { return !predicate(item) }
}

// test evaluates predicate, turning a panic into core.ErrPanic.
func test[T any](predicate func(T) (bool, error), item T) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, core.NewPanicError(r)
		}
	}()
	return predicate(item)
}
