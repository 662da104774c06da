// Package rxtest provides recording subscribers for testing producers and
// operators. Each recorder keeps every notification it receives and checks it
// against the grammar of its cardinality kind, so that protocol violations
// (a second terminal, a notification before OnSubscribe, a notification after
// the recorder disposed its subscription) fail tests instead of going unseen.
//
// Recorders are safe for use from the producer's goroutine while the test
// goroutine reads them.
package rxtest

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lguimbarda/reagent/rx/core"
)

// ErrViolation is wrapped by every error reported through Violations.
var ErrViolation = errors.New("protocol violation")

// NotificationKind identifies a recorded notification.
type NotificationKind int

const (
	Subscribe NotificationKind = iota
	Next
	Item
	Nothing
	Complete
	Error
)

func (k NotificationKind) String() string {
	switch k {
	case Subscribe:
		return "OnSubscribe"
	case Next:
		return "OnNext"
	case Item:
		return "OnItem"
	case Nothing:
		return "OnNothing"
	case Complete:
		return "OnComplete"
	case Error:
		return "OnError"
	default:
		return fmt.Sprintf("NotificationKind(%d)", int(k))
	}
}

// Notification is one recorded call on a subscriber.
type Notification[T any] struct {
	Kind  NotificationKind
	Value T     // set for Next and Item
	Err   error // set for Error
}

func (n Notification[T]) String() string {
	switch n.Kind {
	case Next, Item:
		return fmt.Sprintf("%s(%v)", n.Kind, n.Value)
	case Error:
		return fmt.Sprintf("%s(%v)", n.Kind, n.Err)
	default:
		return n.Kind.String() + "()"
	}
}

// recorder holds the state shared by all recorder kinds.
type recorder[T any] struct {
	mu           sync.Mutex
	kind         core.Kind
	events       []Notification[T]
	violations   []error
	disposable   core.Disposable
	terminated   bool
	disposed     bool
	disposeFirst bool
}

func (r *recorder[T]) onSubscribe(d core.Disposable) {
	r.mu.Lock()
	if len(r.events) > 0 {
		r.violate("%s after %s", Subscribe, r.events[len(r.events)-1])
	}
	r.events = append(r.events, Notification[T]{Kind: Subscribe})
	if r.disposable == nil {
		r.disposable = d
	}
	disposeNow := r.disposeFirst
	r.mu.Unlock()

	if d == nil {
		r.mu.Lock()
		r.violate("%s with a nil Disposable", Subscribe)
		r.mu.Unlock()
		return
	}
	if disposeNow {
		r.Dispose()
	}
}

// record appends n, checking it against the grammar. terminal reports
// whether n ends the subscription for this recorder's kind.
func (r *recorder[T]) record(n Notification[T], terminal bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case len(r.events) == 0:
		r.violate("%s before %s", n, Subscribe)
	case r.terminated:
		r.violate("%s after terminal %s", n, r.lastTerminal())
	case r.disposed:
		r.violate("%s after dispose", n)
	}

	r.events = append(r.events, n)
	if terminal {
		r.terminated = true
	}
}

func (r *recorder[T]) lastTerminal() Notification[T] {
	for i := len(r.events) - 1; i >= 0; i-- {
		switch r.events[i].Kind {
		case Subscribe, Next:
			continue
		}
		return r.events[i]
	}
	return Notification[T]{}
}

// violate must be called with r.mu held.
func (r *recorder[T]) violate(format string, args ...any) {
	r.violations = append(r.violations, fmt.Errorf("%w: %s: %s", ErrViolation, r.kind, fmt.Sprintf(format, args...)))
}

// Notifications returns a copy of everything recorded so far.
func (r *recorder[T]) Notifications() []Notification[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification[T]{}, r.events...)
}

// Violations returns the protocol violations observed so far.
func (r *recorder[T]) Violations() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.violations...)
}

// AssertValid fails the test if any protocol violation was recorded.
func (r *recorder[T]) AssertValid(t testing.TB) bool {
	t.Helper()
	return assert.Empty(t, r.Violations(), "notifications: %v", r.Notifications())
}

// Terminated reports whether a terminal notification was received.
func (r *recorder[T]) Terminated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.terminated
}

// Err returns the error of the first OnError, or nil.
func (r *recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.events {
		if n.Kind == Error {
			return n.Err
		}
	}
	return nil
}

// Disposable returns the handle received through OnSubscribe, or nil.
func (r *recorder[T]) Disposable() core.Disposable {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposable
}

// Dispose disposes the subscription. Notifications that arrive afterwards
// are reported as violations.
func (r *recorder[T]) Dispose() {
	r.mu.Lock()
	d := r.disposable
	r.disposed = true
	r.mu.Unlock()
	if d != nil {
		d.Dispose()
	}
}

func (r *recorder[T]) count(kind NotificationKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder[T]) item() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.events {
		if n.Kind == Item {
			return n.Value, true
		}
	}
	var zero T
	return zero, false
}
