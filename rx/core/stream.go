// Package core defines the subscription protocol of reagent streams: the four
// producer kinds, the subscriber interface each of them notifies, and the
// Disposable handle that tears a subscription down.
//
// The kinds differ by how many items they may emit before terminating:
//
//	Many   0..N items, then OnComplete or OnError
//	Maybe  OnItem, OnNothing or OnError, exactly one of them
//	One    OnItem or OnError, exactly one of them
//	Task   no items, OnComplete or OnError
//
// Every subscription starts with OnSubscribe, which carries the Disposable.
// After a terminal notification no further notification is legal.
//
// NOTE: this package should have no dependencies outside the standard
// library, including other rx packages.
package core

import "fmt"

// Kind tags a producer with its cardinality. The contract itself is carried by
// the Go types below; Kind exists to label log records and metrics.
type Kind uint8

const (
	KindMany Kind = iota
	KindMaybe
	KindOne
	KindTask
)

func (k Kind) String() string {
	switch k {
	case KindMany:
		return "many"
	case KindMaybe:
		return "maybe"
	case KindOne:
		return "one"
	case KindTask:
		return "task"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ManySubscriber receives OnSubscribe, zero or more OnNext, then exactly one
// of OnComplete or OnError.
type ManySubscriber[T any] interface {
	OnSubscribe(Disposable)
	OnNext(T)
	OnComplete()
	OnError(error)
}

// MaybeSubscriber receives OnSubscribe, then exactly one of OnItem, OnNothing
// or OnError. OnItem and OnNothing are themselves terminal.
type MaybeSubscriber[T any] interface {
	OnSubscribe(Disposable)
	OnItem(T)
	OnNothing()
	OnError(error)
}

// OneSubscriber receives OnSubscribe, then exactly one of OnItem or OnError.
type OneSubscriber[T any] interface {
	OnSubscribe(Disposable)
	OnItem(T)
	OnError(error)
}

// TaskSubscriber receives OnSubscribe, then exactly one of OnComplete or OnError.
type TaskSubscriber interface {
	OnSubscribe(Disposable)
	OnComplete()
	OnError(error)
}

// Many is a producer of zero or more items.
// Each call to Subscribe starts an independent sequence.
type Many[T any] interface {
	Subscribe(ManySubscriber[T])
}

// Maybe is a producer of zero or one item.
type Maybe[T any] interface {
	Subscribe(MaybeSubscriber[T])
}

// One is a producer of exactly one item, unless it fails.
type One[T any] interface {
	Subscribe(OneSubscriber[T])
}

// Task is a producer without items that only signals completion or failure.
// It is deliberately not generic: operators that act on items, such as
// filtering, have nothing to accept a Task with.
type Task interface {
	Subscribe(TaskSubscriber)
}

// ManyFunc implements Many with a function.
type ManyFunc[T any] func(ManySubscriber[T])

func (f ManyFunc[T]) Subscribe(s ManySubscriber[T]) { f(s) }

// MaybeFunc implements Maybe with a function.
type MaybeFunc[T any] func(MaybeSubscriber[T])

func (f MaybeFunc[T]) Subscribe(s MaybeSubscriber[T]) { f(s) }

// OneFunc implements One with a function.
type OneFunc[T any] func(OneSubscriber[T])

func (f OneFunc[T]) Subscribe(s OneSubscriber[T]) { f(s) }

// TaskFunc implements Task with a function.
type TaskFunc func(TaskSubscriber)

func (f TaskFunc) Subscribe(s TaskSubscriber) { f(s) }
