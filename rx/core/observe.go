package core

// The Hook* functions decorate a subscriber so that hooks run before each
// notification is forwarded. Notifications are forwarded unchanged and in
// order. The Disposable is forwarded as is unless OnDispose is set, in which
// case the downstream receives a wrapper that reports the first Dispose.

// HookMany decorates a ManySubscriber with hooks.
func HookMany[T any](s ManySubscriber[T], hooks Hooks[T]) ManySubscriber[T] {
	return &manyHooked[T]{downstream: s, hooks: hooks}
}

type manyHooked[T any] struct {
	downstream ManySubscriber[T]
	hooks      Hooks[T]
}

func (m *manyHooked[T]) OnSubscribe(d Disposable) {
	m.hooks.subscribed()
	m.downstream.OnSubscribe(watchDispose(d, m.hooks.OnDispose))
}

func (m *manyHooked[T]) OnNext(item T) {
	m.hooks.item(item)
	m.downstream.OnNext(item)
}

func (m *manyHooked[T]) OnComplete() {
	m.hooks.completed()
	m.downstream.OnComplete()
}

func (m *manyHooked[T]) OnError(err error) {
	m.hooks.failed(err)
	m.downstream.OnError(err)
}

// HookMaybe decorates a MaybeSubscriber with hooks.
func HookMaybe[T any](s MaybeSubscriber[T], hooks Hooks[T]) MaybeSubscriber[T] {
	return &maybeHooked[T]{downstream: s, hooks: hooks}
}

type maybeHooked[T any] struct {
	downstream MaybeSubscriber[T]
	hooks      Hooks[T]
}

func (m *maybeHooked[T]) OnSubscribe(d Disposable) {
	m.hooks.subscribed()
	m.downstream.OnSubscribe(watchDispose(d, m.hooks.OnDispose))
}

func (m *maybeHooked[T]) OnItem(item T) {
	m.hooks.item(item)
	m.downstream.OnItem(item)
}

func (m *maybeHooked[T]) OnNothing() {
	m.hooks.nothing()
	m.downstream.OnNothing()
}

func (m *maybeHooked[T]) OnError(err error) {
	m.hooks.failed(err)
	m.downstream.OnError(err)
}

// HookOne decorates a OneSubscriber with hooks.
func HookOne[T any](s OneSubscriber[T], hooks Hooks[T]) OneSubscriber[T] {
	return &oneHooked[T]{downstream: s, hooks: hooks}
}

type oneHooked[T any] struct {
	downstream OneSubscriber[T]
	hooks      Hooks[T]
}

func (o *oneHooked[T]) OnSubscribe(d Disposable) {
	o.hooks.subscribed()
	o.downstream.OnSubscribe(watchDispose(d, o.hooks.OnDispose))
}

func (o *oneHooked[T]) OnItem(item T) {
	o.hooks.item(item)
	o.downstream.OnItem(item)
}

func (o *oneHooked[T]) OnError(err error) {
	o.hooks.failed(err)
	o.downstream.OnError(err)
}

// HookTask decorates a TaskSubscriber with hooks. OnItem and OnNothing are
// never called.
func HookTask(s TaskSubscriber, hooks Hooks[struct{}]) TaskSubscriber {
	return &taskHooked{downstream: s, hooks: hooks}
}

type taskHooked struct {
	downstream TaskSubscriber
	hooks      Hooks[struct{}]
}

func (t *taskHooked) OnSubscribe(d Disposable) {
	t.hooks.subscribed()
	t.downstream.OnSubscribe(watchDispose(d, t.hooks.OnDispose))
}

func (t *taskHooked) OnComplete() {
	t.hooks.completed()
	t.downstream.OnComplete()
}

func (t *taskHooked) OnError(err error) {
	t.hooks.failed(err)
	t.downstream.OnError(err)
}

func watchDispose(d Disposable, onDispose func()) Disposable {
	if onDispose == nil {
		return d
	}
	return &watchedDisposable{Disposable: d, onDispose: DisposableFunc(onDispose)}
}

// watchedDisposable reports the first Dispose call once, then delegates.
type watchedDisposable struct {
	Disposable
	onDispose Disposable
}

func (w *watchedDisposable) Dispose() {
	if !w.Disposable.IsDisposed() {
		w.onDispose.Dispose()
	}
	w.Disposable.Dispose()
}
