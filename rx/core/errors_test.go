package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrPanicError(t *testing.T) {
	tests := []struct {
		name string
		err  ErrPanic
		want string
	}{
		{"without stack", ErrPanic{Value: "boom"}, "panic: boom"},
		{"with stack", ErrPanic{Value: 3, Stack: "main.f\n\tf.go:1"}, "panic: 3\nmain.f\n\tf.go:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrPanicUnwrap(t *testing.T) {
	cause := errors.New("cause")

	assert.ErrorIs(t, ErrPanic{Value: cause}, cause)
	assert.Nil(t, ErrPanic{Value: "text"}.Unwrap())
}

func TestNewPanicErrorCapturesValue(t *testing.T) {
	var got ErrPanic
	func() {
		defer func() {
			if r := recover(); r != nil {
				got = NewPanicError(r)
			}
		}()
		panic("predicate exploded")
	}()

	require.Equal(t, "predicate exploded", got.Value)
	assert.NotContains(t, got.Stack, "reagent/rx/core.NewPanicError")
}

func TestCleanStack(t *testing.T) {
	stack := strings.Join([]string{
		"github.com/lguimbarda/reagent/rx/filter.(*manyOperator[...]).OnNext",
		"\t/src/rx/filter/filter.go:10",
		"main.isEven",
		"\t/src/main.go:5",
		"github.com/lguimbarda/reagent/rx/filter_test.TestMany.func1",
		"\t/src/rx/filter/filter_test.go:20",
		"runtime.goexit",
		"\t/go/src/runtime/asm.s:1",
		"",
	}, "\n")

	got := cleanStack(stack)

	assert.Equal(t, strings.Join([]string{
		"main.isEven",
		"\t/src/main.go:5",
		"github.com/lguimbarda/reagent/rx/filter_test.TestMany.func1",
		"\t/src/rx/filter/filter_test.go:20",
		"runtime.goexit",
		"\t/go/src/runtime/asm.s:1",
	}, "\n"), got)
}
