package observe

import (
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/lguimbarda/reagent/rx/core"
)

// NewLogger creates a slog.Logger backed by the global OpenTelemetry
// LoggerProvider, so that records carry trace correlation when a provider is
// configured.
func NewLogger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// Logged returns a per-subscription hooks factory for the Each operators.
// Each subscription gets its own id; notifications are logged at Debug and
// errors at Warn.
func Logged[T any](logger *slog.Logger, stream string) func() core.Hooks[T] {
	return func() core.Hooks[T] {
		l := logger.With(
			slog.String("stream", stream),
			slog.String("subscription", uuid.NewString()),
		)
		return core.Hooks[T]{
			OnSubscribe: func() { l.Debug("subscribed") },
			OnItem:      func(v T) { l.Debug("item", slog.Any("value", v)) },
			OnNothing:   func() { l.Debug("nothing") },
			OnComplete:  func() { l.Debug("completed") },
			OnError:     func(err error) { l.Warn("failed", slog.Any("error", err)) },
			OnDispose:   func() { l.Debug("disposed") },
		}
	}
}
