package filter

import (
	"github.com/lguimbarda/reagent/rx/core"
)

// Each filter type is a stateless wrapper; Subscribe builds a fresh operator
// bound to that subscription's downstream.
//
// Operators keep a failed flag without locking: the protocol never delivers
// two notifications of one subscription concurrently.

type manyFilter[T any] struct {
	upstream  core.Many[T]
	predicate func(T) (bool, error)
}

func (f *manyFilter[T]) Subscribe(s core.ManySubscriber[T]) {
	f.upstream.Subscribe(&manyOperator[T]{downstream: s, predicate: f.predicate})
}

type manyOperator[T any] struct {
	downstream core.ManySubscriber[T]
	predicate  func(T) (bool, error)
	upstream   core.Disposable
	failed     bool
}

func (o *manyOperator[T]) OnSubscribe(d core.Disposable) {
	o.upstream = d
	o.downstream.OnSubscribe(d)
}

func (o *manyOperator[T]) OnNext(item T) {
	if o.failed {
		return
	}
	ok, err := test(o.predicate, item)
	if err != nil {
		o.fail(err)
		return
	}
	if ok {
		o.downstream.OnNext(item)
	}
}

func (o *manyOperator[T]) OnComplete() {
	if o.failed {
		return
	}
	o.downstream.OnComplete()
}

func (o *manyOperator[T]) OnError(err error) {
	if o.failed {
		return
	}
	o.downstream.OnError(err)
}

func (o *manyOperator[T]) fail(err error) {
	o.failed = true
	dispose(o.upstream)
	o.downstream.OnError(err)
}

type maybeFilter[T any] struct {
	upstream  core.Maybe[T]
	predicate func(T) (bool, error)
}

func (f *maybeFilter[T]) Subscribe(s core.MaybeSubscriber[T]) {
	f.upstream.Subscribe(&maybeOperator[T]{downstream: s, predicate: f.predicate})
}

type maybeOperator[T any] struct {
	downstream core.MaybeSubscriber[T]
	predicate  func(T) (bool, error)
	upstream   core.Disposable
}

func (o *maybeOperator[T]) OnSubscribe(d core.Disposable) {
	o.upstream = d
	o.downstream.OnSubscribe(d)
}

func (o *maybeOperator[T]) OnItem(item T) {
	emitFiltered(o.downstream, o.upstream, o.predicate, item)
}

func (o *maybeOperator[T]) OnNothing()        { o.downstream.OnNothing() }
func (o *maybeOperator[T]) OnError(err error) { o.downstream.OnError(err) }

type oneFilter[T any] struct {
	upstream  core.One[T]
	predicate func(T) (bool, error)
}

func (f *oneFilter[T]) Subscribe(s core.MaybeSubscriber[T]) {
	f.upstream.Subscribe(&oneOperator[T]{downstream: s, predicate: f.predicate})
}

// oneOperator speaks the One protocol upstream and the Maybe protocol
// downstream.
type oneOperator[T any] struct {
	downstream core.MaybeSubscriber[T]
	predicate  func(T) (bool, error)
	upstream   core.Disposable
}

func (o *oneOperator[T]) OnSubscribe(d core.Disposable) {
	o.upstream = d
	o.downstream.OnSubscribe(d)
}

func (o *oneOperator[T]) OnItem(item T) {
	emitFiltered(o.downstream, o.upstream, o.predicate, item)
}

func (o *oneOperator[T]) OnError(err error) { o.downstream.OnError(err) }

// emitFiltered delivers the single terminal notification a Maybe downstream
// gets for an upstream item. The item is terminal upstream as well, so no
// failed flag is needed.
func emitFiltered[T any](s core.MaybeSubscriber[T], upstream core.Disposable, predicate func(T) (bool, error), item T) {
	ok, err := test(predicate, item)
	switch {
	case err != nil:
		dispose(upstream)
		s.OnError(err)
	case ok:
		s.OnItem(item)
	default:
		s.OnNothing()
	}
}

func dispose(d core.Disposable) {
	if d != nil {
		d.Dispose()
	}
}
