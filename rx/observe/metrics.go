package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lguimbarda/reagent/rx/core"
)

// DefaultPrefix is prepended to every instrument name.
const DefaultPrefix = "reagent."

// Attribute keys recorded with every measurement.
const (
	KindKey   = attribute.Key("reagent.kind")
	StreamKey = attribute.Key("reagent.stream")
)

type config struct {
	prefix string
	attrs  []attribute.KeyValue
}

// Option configures NewInstruments.
type Option func(*config)

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithAttributes adds attributes to every measurement.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// Instruments holds the OpenTelemetry counters that Metered records to.
// Create one set per meter and share it between streams.
type Instruments struct {
	subscriptions metric.Int64Counter
	items         metric.Int64Counter
	nothings      metric.Int64Counter
	completions   metric.Int64Counter
	errors        metric.Int64Counter
	disposals     metric.Int64Counter
	attrs         []attribute.KeyValue
}

// NewInstruments creates the counters on meter:
//
//	<prefix>subscriptions  subscriptions started
//	<prefix>items          OnNext and OnItem notifications
//	<prefix>nothings       OnNothing notifications
//	<prefix>completions    OnComplete notifications
//	<prefix>errors         OnError notifications
//	<prefix>disposals      subscriptions disposed by a consumer
func NewInstruments(meter metric.Meter, opts ...Option) (*Instruments, error) {
	cfg := config{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&cfg)
	}

	in := &Instruments{attrs: cfg.attrs}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&in.subscriptions, "subscriptions", "subscriptions started"},
		{&in.items, "items", "items delivered"},
		{&in.nothings, "nothings", "maybe subscriptions that ended without an item"},
		{&in.completions, "completions", "subscriptions that completed"},
		{&in.errors, "errors", "subscriptions that failed"},
		{&in.disposals, "disposals", "subscriptions disposed by a consumer"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(cfg.prefix+c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("create %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}

	return in, nil
}

// Metered returns hooks that record into in, labelled with the stream's kind
// and name.
func Metered[T any](in *Instruments, kind core.Kind, stream string) core.Hooks[T] {
	attrs := make([]attribute.KeyValue, 0, len(in.attrs)+2)
	attrs = append(attrs, in.attrs...)
	attrs = append(attrs, KindKey.String(kind.String()), StreamKey.String(stream))
	set := metric.WithAttributeSet(attribute.NewSet(attrs...))

	add := func(c metric.Int64Counter) func() {
		return func() { c.Add(context.Background(), 1, set) }
	}

	return core.Hooks[T]{
		OnSubscribe: add(in.subscriptions),
		OnItem:      func(T) { in.items.Add(context.Background(), 1, set) },
		OnNothing:   add(in.nothings),
		OnComplete:  add(in.completions),
		OnError:     func(error) { in.errors.Add(context.Background(), 1, set) },
		OnDispose:   add(in.disposals),
	}
}
