package observe_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguimbarda/reagent/rx"
	"github.com/lguimbarda/reagent/rx/observe"
)

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), &buf
}

func TestLogged(t *testing.T) {
	logger, buf := bufferLogger()
	stream := observe.ManyEach(rx.Of(1, 2), observe.Logged[int](logger, "numbers"))

	_, err := rx.Slice(context.Background(), stream)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "msg=subscribed")
	assert.Contains(t, lines[1], "msg=item")
	assert.Contains(t, lines[1], "value=1")
	assert.Contains(t, lines[2], "value=2")
	assert.Contains(t, lines[3], "msg=completed")
	for _, line := range lines {
		assert.Contains(t, line, "level=DEBUG")
		assert.Contains(t, line, "stream=numbers")
		assert.Contains(t, line, "subscription=")
	}
}

func TestLoggedError(t *testing.T) {
	logger, buf := bufferLogger()
	stream := observe.OneEach(rx.OneError[string](errors.New("no row")), observe.Logged[string](logger, "row"))

	_, err := rx.Await(context.Background(), stream)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "msg=failed")
	assert.Contains(t, out, `error="no row"`)
}

func TestLoggedSubscriptionIDs(t *testing.T) {
	logger, buf := bufferLogger()
	stream := observe.MaybeEach(rx.Nothing[int](), observe.Logged[int](logger, "maybe"))

	for range 2 {
		_, _, err := rx.AwaitMaybe(context.Background(), stream)
		require.NoError(t, err)
	}

	ids := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		for _, field := range strings.Fields(line) {
			if id, ok := strings.CutPrefix(field, "subscription="); ok {
				ids[id] = true
			}
		}
	}
	assert.Len(t, ids, 2, "each subscription gets its own id")
}

func TestNewLogger(t *testing.T) {
	logger := observe.NewLogger("github.com/lguimbarda/reagent/rx/observe")
	require.NotNil(t, logger)

	assert.NotPanics(t, func() {
		_, err := rx.Slice(context.Background(), observe.ManyEach(rx.Of(1), observe.Logged[int](logger, "otel")))
		assert.NoError(t, err)
	})
}
