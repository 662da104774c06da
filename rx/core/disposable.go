package core

import (
	"sync"
	"sync/atomic"
)

// Disposable is the cancellation handle of a single subscription.
// Producers hand it to their subscriber through OnSubscribe.
//
// Dispose is idempotent: only the first call has an effect. Disposing does not
// interrupt a notification that is already being delivered on another call
// stack, but once Dispose returns the producer must not start a new one.
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

// NewDisposable creates a Disposable that only records whether it was disposed.
// Producers poll IsDisposed before every notification.
func NewDisposable() Disposable {
	return &flagDisposable{}
}

type flagDisposable struct {
	disposed atomic.Bool
}

func (d *flagDisposable) Dispose()         { d.disposed.Store(true) }
func (d *flagDisposable) IsDisposed() bool { return d.disposed.Load() }

// DisposableFunc creates a Disposable that runs fn the first time it is disposed.
// Later calls to Dispose do nothing. A nil fn is allowed.
func DisposableFunc(fn func()) Disposable {
	return &funcDisposable{fn: fn}
}

type funcDisposable struct {
	once     sync.Once
	disposed atomic.Bool
	fn       func()
}

func (d *funcDisposable) Dispose() {
	d.once.Do(func() {
		d.disposed.Store(true)
		if d.fn != nil {
			d.fn()
		}
	})
}

func (d *funcDisposable) IsDisposed() bool { return d.disposed.Load() }

// Disposed returns a Disposable that is already disposed.
func Disposed() Disposable {
	d := &flagDisposable{}
	d.disposed.Store(true)
	return d
}

// disposableRef holds a Disposable that arrives later, possibly on another
// goroutine. Disposing the ref before the target is set disposes the target
// as soon as it arrives.
type disposableRef struct {
	mu       sync.Mutex
	target   Disposable
	disposed bool
}

func (r *disposableRef) set(d Disposable) {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		d.Dispose()
		return
	}
	r.target = d
	r.mu.Unlock()
}

func (r *disposableRef) Dispose() {
	r.mu.Lock()
	r.disposed = true
	target := r.target
	r.mu.Unlock()
	if target != nil {
		target.Dispose()
	}
}

func (r *disposableRef) IsDisposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}
