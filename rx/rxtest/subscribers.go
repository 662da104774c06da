package rxtest

import (
	"sync/atomic"

	"github.com/lguimbarda/reagent/rx/core"
)

// Many records the notifications of a Many subscription.
type Many[T any] struct {
	recorder[T]
	disposeAfter atomic.Int64
}

var _ core.ManySubscriber[int] = (*Many[int])(nil)

// NewMany creates a recorder for a Many.
func NewMany[T any]() *Many[T] {
	m := &Many[T]{recorder: recorder[T]{kind: core.KindMany}}
	m.disposeAfter.Store(-1)
	return m
}

// DisposeOnSubscribe makes the recorder dispose as soon as it receives
// OnSubscribe.
func (m *Many[T]) DisposeOnSubscribe() *Many[T] {
	m.disposeFirst = true
	return m
}

// DisposeAfter makes the recorder dispose after receiving n items.
func (m *Many[T]) DisposeAfter(n int) *Many[T] {
	m.disposeAfter.Store(int64(n))
	return m
}

func (m *Many[T]) OnSubscribe(d core.Disposable) { m.onSubscribe(d) }

func (m *Many[T]) OnNext(item T) {
	m.record(Notification[T]{Kind: Next, Value: item}, false)
	if limit := m.disposeAfter.Load(); limit >= 0 && int64(m.count(Next)) >= limit {
		m.Dispose()
	}
}

func (m *Many[T]) OnComplete()       { m.record(Notification[T]{Kind: Complete}, true) }
func (m *Many[T]) OnError(err error) { m.record(Notification[T]{Kind: Error, Err: err}, true) }

// Items returns the items received through OnNext, never nil.
func (m *Many[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []T{}
	for _, n := range m.events {
		if n.Kind == Next {
			items = append(items, n.Value)
		}
	}
	return items
}

// Completed reports whether OnComplete was received.
func (m *Many[T]) Completed() bool { return m.count(Complete) > 0 }

// Maybe records the notifications of a Maybe subscription.
type Maybe[T any] struct {
	recorder[T]
}

var _ core.MaybeSubscriber[int] = (*Maybe[int])(nil)

// NewMaybe creates a recorder for a Maybe.
func NewMaybe[T any]() *Maybe[T] {
	return &Maybe[T]{recorder: recorder[T]{kind: core.KindMaybe}}
}

// DisposeOnSubscribe makes the recorder dispose as soon as it receives
// OnSubscribe.
func (m *Maybe[T]) DisposeOnSubscribe() *Maybe[T] {
	m.disposeFirst = true
	return m
}

func (m *Maybe[T]) OnSubscribe(d core.Disposable) { m.onSubscribe(d) }
func (m *Maybe[T]) OnItem(item T)                 { m.record(Notification[T]{Kind: Item, Value: item}, true) }
func (m *Maybe[T]) OnNothing()                    { m.record(Notification[T]{Kind: Nothing}, true) }
func (m *Maybe[T]) OnError(err error)             { m.record(Notification[T]{Kind: Error, Err: err}, true) }

// Item returns the item received through OnItem.
func (m *Maybe[T]) Item() (T, bool) { return m.item() }

// GotNothing reports whether OnNothing was received.
func (m *Maybe[T]) GotNothing() bool { return m.count(Nothing) > 0 }

// One records the notifications of a One subscription.
type One[T any] struct {
	recorder[T]
}

var _ core.OneSubscriber[int] = (*One[int])(nil)

// NewOne creates a recorder for a One.
func NewOne[T any]() *One[T] {
	return &One[T]{recorder: recorder[T]{kind: core.KindOne}}
}

// DisposeOnSubscribe makes the recorder dispose as soon as it receives
// OnSubscribe.
func (o *One[T]) DisposeOnSubscribe() *One[T] {
	o.disposeFirst = true
	return o
}

func (o *One[T]) OnSubscribe(d core.Disposable) { o.onSubscribe(d) }
func (o *One[T]) OnItem(item T)                 { o.record(Notification[T]{Kind: Item, Value: item}, true) }
func (o *One[T]) OnError(err error)             { o.record(Notification[T]{Kind: Error, Err: err}, true) }

// Item returns the item received through OnItem.
func (o *One[T]) Item() (T, bool) { return o.item() }

// Task records the notifications of a Task subscription.
type Task struct {
	recorder[struct{}]
}

var _ core.TaskSubscriber = (*Task)(nil)

// NewTask creates a recorder for a Task.
func NewTask() *Task {
	return &Task{recorder: recorder[struct{}]{kind: core.KindTask}}
}

// DisposeOnSubscribe makes the recorder dispose as soon as it receives
// OnSubscribe.
func (t *Task) DisposeOnSubscribe() *Task {
	t.disposeFirst = true
	return t
}

func (t *Task) OnSubscribe(d core.Disposable) { t.onSubscribe(d) }
func (t *Task) OnComplete()                   { t.record(Notification[struct{}]{Kind: Complete}, true) }
func (t *Task) OnError(err error)             { t.record(Notification[struct{}]{Kind: Error, Err: err}, true) }

// Completed reports whether OnComplete was received.
func (t *Task) Completed() bool { return t.count(Complete) > 0 }
