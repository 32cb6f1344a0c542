package eventloop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSource Source = "test"
	kindA      Kind   = "a"
	kindB      Kind   = "b"
)

func TestLoop_DeliversInEmitOrder(t *testing.T) {
	l := New(nil)
	var got []string
	l.On(testSource, kindA, func() { got = append(got, "a") })
	l.On(testSource, kindB, func() { got = append(got, "b") })

	l.Emit(testSource, kindB)
	l.Emit(testSource, kindA)
	l.Emit(testSource, kindB)
	l.RunPending()

	assert.Equal(t, []string{"b", "a", "b"}, got)
}

func TestLoop_OnceFiresOnlyOnce(t *testing.T) {
	l := New(nil)
	calls := 0
	l.Once(testSource, kindA, func() { calls++ })

	l.Emit(testSource, kindA)
	l.Emit(testSource, kindA)
	l.RunPending()

	assert.Equal(t, 1, calls)
}

func TestLoop_CancelRemovesHandler(t *testing.T) {
	l := New(nil)
	calls := 0
	cancel := l.On(testSource, kindA, func() { calls++ })

	l.Emit(testSource, kindA)
	l.RunPending()
	cancel()
	l.Emit(testSource, kindA)
	l.RunPending()

	assert.Equal(t, 1, calls)
}

func TestLoop_RemoveSource(t *testing.T) {
	l := New(nil)
	calls := 0
	l.On("window:1", kindA, func() { calls++ })
	l.On("window:1", kindB, func() { calls++ })
	l.On("window:2", kindA, func() { calls += 10 })

	l.RemoveSource("window:1")
	l.Emit("window:1", kindA)
	l.Emit("window:1", kindB)
	l.Emit("window:2", kindA)
	l.RunPending()

	assert.Equal(t, 10, calls)
}

func TestLoop_HandlerEmitsAreQueuedNotReentrant(t *testing.T) {
	l := New(nil)
	var got []string
	l.On(testSource, kindA, func() {
		got = append(got, "a-start")
		l.Emit(testSource, kindB)
		got = append(got, "a-end")
	})
	l.On(testSource, kindB, func() { got = append(got, "b") })

	l.Emit(testSource, kindA)
	for l.RunPending() > 0 {
	}

	assert.Equal(t, []string{"a-start", "a-end", "b"}, got)
}

func TestLoop_RunAndCall(t *testing.T) {
	l := New(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	value := 0
	require.NoError(t, l.Call(ctx, func() { value = 42 }))
	assert.Equal(t, 42, value)

	l.Stop()
	require.NoError(t, <-errCh)

	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Call(ctx, func() {}), ErrStopped)
}

func TestLoop_StopFromHandlerSkipsRemainingWork(t *testing.T) {
	l := New(nil)
	ran := false
	l.Post(func() { l.Stop() })
	l.Post(func() { ran = true })

	l.RunPending()

	assert.False(t, ran)
}
