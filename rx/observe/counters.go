package observe

import (
	"sync/atomic"
	"time"

	"github.com/lguimbarda/reagent/rx/core"
)

// Counters holds live notification counts that can be read concurrently
// while streams are running. One Counters value may be shared by many
// subscriptions.
type Counters struct {
	subscriptions atomic.Int64
	items         atomic.Int64
	nothings      atomic.Int64
	completions   atomic.Int64
	errors        atomic.Int64
	disposals     atomic.Int64
	lastItemTime  atomic.Int64 // Unix nano
}

// Subscriptions returns the number of subscriptions started.
func (c *Counters) Subscriptions() int64 { return c.subscriptions.Load() }

// Items returns the number of items delivered.
func (c *Counters) Items() int64 { return c.items.Load() }

// Nothings returns the number of OnNothing notifications.
func (c *Counters) Nothings() int64 { return c.nothings.Load() }

// Completions returns the number of OnComplete notifications.
func (c *Counters) Completions() int64 { return c.completions.Load() }

// Errors returns the number of OnError notifications.
func (c *Counters) Errors() int64 { return c.errors.Load() }

// Disposals returns the number of subscriptions disposed by a consumer.
func (c *Counters) Disposals() int64 { return c.disposals.Load() }

// Terminated returns the number of subscriptions that reached a terminal
// notification. OnItem of a Maybe or One is not counted here.
func (c *Counters) Terminated() int64 {
	return c.nothings.Load() + c.completions.Load() + c.errors.Load()
}

// LastItemTime returns when the last item was delivered, or the zero time.
func (c *Counters) LastItemTime() time.Time {
	ns := c.lastItemTime.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Counted returns hooks that update c.
func Counted[T any](c *Counters) core.Hooks[T] {
	return core.Hooks[T]{
		OnSubscribe: func() { c.subscriptions.Add(1) },
		OnItem: func(T) {
			c.items.Add(1)
			c.lastItemTime.Store(time.Now().UnixNano())
		},
		OnNothing:  func() { c.nothings.Add(1) },
		OnComplete: func() { c.completions.Add(1) },
		OnError:    func(error) { c.errors.Add(1) },
		OnDispose:  func() { c.disposals.Add(1) },
	}
}
