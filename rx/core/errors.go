package core

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrEmpty is returned when a consumer expected an item and the producer
// terminated without one.
var ErrEmpty = errors.New("producer terminated without an item")

// ErrPanic wraps a recovered panic value as an error.
// Operators use it when a user-provided callback such as a predicate panics;
// the panic becomes the terminal OnError of the subscription.
// Stack is trimmed of reagent's own frames so that it points at user code.
type ErrPanic struct {
	Value any
	Stack string
}

func (e ErrPanic) Error() string {
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e ErrPanic) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// NewPanicError creates an ErrPanic from a recovered value.
// It must be called from the deferred function that recovered.
func NewPanicError(recovered any) ErrPanic {
	return ErrPanic{
		Value: recovered,
		Stack: cleanStack(captureStack(4)), // skip: runtime.Callers, captureStack, NewPanicError, defer func
	}
}

// ErrUnhandled is the panic value raised when an OnError reaches a Funcs
// subscriber that has no Error callback.
type ErrUnhandled struct {
	Err error
}

func (e ErrUnhandled) Error() string { return "unhandled stream error: " + e.Err.Error() }

func (e ErrUnhandled) Unwrap() error { return e.Err }

func captureStack(skip int) string {
	const maxFrames = 32
	var pcs [maxFrames]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder

	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}

	return sb.String()
}

const internalPrefix = "github.com/lguimbarda/reagent/rx/"

// cleanStack drops reagent's internal frames (function line plus the
// file:line that follows it) and keeps everything else.
func cleanStack(stack string) string {
	lines := strings.Split(stack, "\n")
	var result []string
	var skipNext bool

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !strings.HasPrefix(line, "\t") {
			if isInternalFrame(line) {
				skipNext = true
				continue
			}
			skipNext = false
		} else if skipNext {
			continue
		}

		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

// isInternalFrame reports whether a function line belongs to a reagent
// package. Test packages (suffix _test) count as user code.
func isInternalFrame(fn string) bool {
	if !strings.HasPrefix(fn, internalPrefix) {
		return false
	}
	pkg := fn[len(internalPrefix):]
	if i := strings.Index(pkg, "."); i >= 0 {
		pkg = pkg[:i]
	}
	return !strings.HasSuffix(pkg, "_test")
}
