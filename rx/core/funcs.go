package core

// The Funcs types implement the subscriber interfaces with optional callbacks.
// A nil field ignores the corresponding notification, except OnError: an
// unhandled error is a bug in the caller, so a nil OnError panics with it.

// ManyFuncs implements ManySubscriber.
type ManyFuncs[T any] struct {
	Subscribe func(Disposable)
	Next      func(T)
	Complete  func()
	Error     func(error)
}

func (f ManyFuncs[T]) OnSubscribe(d Disposable) {
	if f.Subscribe != nil {
		f.Subscribe(d)
	}
}

func (f ManyFuncs[T]) OnNext(item T) {
	if f.Next != nil {
		f.Next(item)
	}
}

func (f ManyFuncs[T]) OnComplete() {
	if f.Complete != nil {
		f.Complete()
	}
}

func (f ManyFuncs[T]) OnError(err error) { handleError(f.Error, err) }

// MaybeFuncs implements MaybeSubscriber.
type MaybeFuncs[T any] struct {
	Subscribe func(Disposable)
	Item      func(T)
	Nothing   func()
	Error     func(error)
}

func (f MaybeFuncs[T]) OnSubscribe(d Disposable) {
	if f.Subscribe != nil {
		f.Subscribe(d)
	}
}

func (f MaybeFuncs[T]) OnItem(item T) {
	if f.Item != nil {
		f.Item(item)
	}
}

func (f MaybeFuncs[T]) OnNothing() {
	if f.Nothing != nil {
		f.Nothing()
	}
}

func (f MaybeFuncs[T]) OnError(err error) { handleError(f.Error, err) }

// OneFuncs implements OneSubscriber.
type OneFuncs[T any] struct {
	Subscribe func(Disposable)
	Item      func(T)
	Error     func(error)
}

func (f OneFuncs[T]) OnSubscribe(d Disposable) {
	if f.Subscribe != nil {
		f.Subscribe(d)
	}
}

func (f OneFuncs[T]) OnItem(item T) {
	if f.Item != nil {
		f.Item(item)
	}
}

func (f OneFuncs[T]) OnError(err error) { handleError(f.Error, err) }

// TaskFuncs implements TaskSubscriber.
type TaskFuncs struct {
	Subscribe func(Disposable)
	Complete  func()
	Error     func(error)
}

func (f TaskFuncs) OnSubscribe(d Disposable) {
	if f.Subscribe != nil {
		f.Subscribe(d)
	}
}

func (f TaskFuncs) OnComplete() {
	if f.Complete != nil {
		f.Complete()
	}
}

func (f TaskFuncs) OnError(err error) { handleError(f.Error, err) }

func handleError(fn func(error), err error) {
	if fn == nil {
		panic(ErrUnhandled{Err: err})
	}
	fn(err)
}
