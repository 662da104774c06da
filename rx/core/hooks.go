package core

import (
	"context"
)

// Hooks holds typed observation callbacks for a subscription.
// All fields are optional - nil means no observation for that notification.
// Hooks are invoked synchronously on the notifying call stack, so they
// should be fast to avoid stalling the producer.
//
// A Task carries no items; observe it with Hooks[struct{}].
type Hooks[T any] struct {
	OnSubscribe func()      // Subscription started
	OnItem      func(T)     // OnNext (Many) or OnItem (Maybe, One)
	OnNothing   func()      // Maybe terminated without an item
	OnComplete  func()      // Many or Task completed
	OnError     func(error) // Terminal error
	OnDispose   func()      // Subscription disposed by a consumer
}

// hooksKey is unexported to prevent collisions with user context keys.
type hooksKey[T any] struct{}

// hooksContainer holds multiple hook sets for FIFO invocation.
type hooksContainer[T any] struct {
	hookSets []*Hooks[T]
}

// WithHooks attaches typed hooks to the context. The terminal consumers
// (Slice, Await, AwaitMaybe, Wait) invoke them for every notification they
// receive.
// Multiple calls to WithHooks compose in FIFO order - hooks from earlier
// calls are invoked before hooks from later calls.
//
// Example:
//
//	ctx := core.WithHooks(ctx, core.Hooks[int]{
//	    OnItem: func(v int) { log.Printf("item: %d", v) },
//	})
func WithHooks[T any](ctx context.Context, hooks Hooks[T]) context.Context {
	if ctx == nil {
		panic("nil context")
	}

	existing := getHooksContainer[T](ctx)
	if existing == nil {
		return context.WithValue(ctx, hooksKey[T]{}, &hooksContainer[T]{
			hookSets: []*Hooks[T]{&hooks},
		})
	}

	// Copy so that contexts derived earlier keep their own hook list.
	newContainer := &hooksContainer[T]{
		hookSets: make([]*Hooks[T], len(existing.hookSets)+1),
	}
	copy(newContainer.hookSets, existing.hookSets)
	newContainer.hookSets[len(existing.hookSets)] = &hooks

	return context.WithValue(ctx, hooksKey[T]{}, newContainer)
}

// HooksFrom returns the hooks attached to ctx for type T, merged in FIFO
// order into a single Hooks value. It returns false when there are none.
func HooksFrom[T any](ctx context.Context) (Hooks[T], bool) {
	container := getHooksContainer[T](ctx)
	if container == nil {
		return Hooks[T]{}, false
	}
	sets := make([]Hooks[T], len(container.hookSets))
	for i, h := range container.hookSets {
		sets[i] = *h
	}
	return MergeHooks(sets...), true
}

func getHooksContainer[T any](ctx context.Context) *hooksContainer[T] {
	if ctx == nil {
		return nil
	}
	if c, ok := ctx.Value(hooksKey[T]{}).(*hooksContainer[T]); ok {
		return c
	}
	return nil
}

// MergeHooks combines several hook sets into one that calls them in order.
// Fields that are nil in every set stay nil.
func MergeHooks[T any](sets ...Hooks[T]) Hooks[T] {
	switch len(sets) {
	case 0:
		return Hooks[T]{}
	case 1:
		return sets[0]
	}

	var (
		subscribe, nothing, complete, dispose []func()
		item                                  []func(T)
		errs                                  []func(error)
	)
	for _, h := range sets {
		if h.OnSubscribe != nil {
			subscribe = append(subscribe, h.OnSubscribe)
		}
		if h.OnItem != nil {
			item = append(item, h.OnItem)
		}
		if h.OnNothing != nil {
			nothing = append(nothing, h.OnNothing)
		}
		if h.OnComplete != nil {
			complete = append(complete, h.OnComplete)
		}
		if h.OnError != nil {
			errs = append(errs, h.OnError)
		}
		if h.OnDispose != nil {
			dispose = append(dispose, h.OnDispose)
		}
	}

	return Hooks[T]{
		OnSubscribe: chain(subscribe),
		OnItem:      chainArg(item),
		OnNothing:   chain(nothing),
		OnComplete:  chain(complete),
		OnError:     chainArg(errs),
		OnDispose:   chain(dispose),
	}
}

func chain(fns []func()) func() {
	switch len(fns) {
	case 0:
		return nil
	case 1:
		return fns[0]
	}
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}

func chainArg[A any](fns []func(A)) func(A) {
	switch len(fns) {
	case 0:
		return nil
	case 1:
		return fns[0]
	}
	return func(a A) {
		for _, fn := range fns {
			fn(a)
		}
	}
}

// Invoke helpers. Each is a no-op for a nil callback.

func (h Hooks[T]) subscribed() {
	if h.OnSubscribe != nil {
		h.OnSubscribe()
	}
}

func (h Hooks[T]) item(v T) {
	if h.OnItem != nil {
		h.OnItem(v)
	}
}

func (h Hooks[T]) nothing() {
	if h.OnNothing != nil {
		h.OnNothing()
	}
}

func (h Hooks[T]) completed() {
	if h.OnComplete != nil {
		h.OnComplete()
	}
}

func (h Hooks[T]) failed(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}

func (h Hooks[T]) disposed() {
	if h.OnDispose != nil {
		h.OnDispose()
	}
}

// SafeHooks wraps Hooks[T] to recover from panics in hook functions.
// Use this when hooks are user-provided and panics should not break the
// notification chain.
type SafeHooks[T any] struct {
	Hooks[T]
	panicHandler func(any)
}

// NewSafeHooks creates SafeHooks from regular Hooks.
// If panicHandler is nil, panics are silently recovered.
func NewSafeHooks[T any](hooks Hooks[T], panicHandler func(any)) SafeHooks[T] {
	if panicHandler == nil {
		panicHandler = func(any) {}
	}

	safe := SafeHooks[T]{panicHandler: panicHandler}
	recoverTo := func() {
		if r := recover(); r != nil {
			panicHandler(r)
		}
	}

	if fn := hooks.OnSubscribe; fn != nil {
		safe.OnSubscribe = func() { defer recoverTo(); fn() }
	}
	if fn := hooks.OnItem; fn != nil {
		safe.OnItem = func(v T) { defer recoverTo(); fn(v) }
	}
	if fn := hooks.OnNothing; fn != nil {
		safe.OnNothing = func() { defer recoverTo(); fn() }
	}
	if fn := hooks.OnComplete; fn != nil {
		safe.OnComplete = func() { defer recoverTo(); fn() }
	}
	if fn := hooks.OnError; fn != nil {
		safe.OnError = func(err error) { defer recoverTo(); fn(err) }
	}
	if fn := hooks.OnDispose; fn != nil {
		safe.OnDispose = func() { defer recoverTo(); fn() }
	}

	return safe
}

// WithSafeHooks wraps hooks with panic recovery before attaching them to the
// context.
func WithSafeHooks[T any](ctx context.Context, hooks Hooks[T], panicHandler func(any)) context.Context {
	safe := NewSafeHooks(hooks, panicHandler)
	return WithHooks(ctx, safe.Hooks)
}
