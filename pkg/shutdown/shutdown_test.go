package shutdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestShutdown_RunsHooksInPriorityOrder(t *testing.T) {
	h := NewHandler(Config{})

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	h.Register("cache", PriorityCache, record("cache"))
	h.Register("http", PriorityHTTP, record("http"))
	h.Register("tracing", PriorityTracing, record("tracing"))
	h.Register("live", PriorityLive, record("live"))
	h.Register("live-2", PriorityLive, record("live-2"))

	require.NoError(t, h.Shutdown(context.Background()))
	assert.Equal(t, []string{"http", "live", "live-2", "tracing", "cache"}, order)
	assert.True(t, h.IsClosed())
}

func TestShutdown_JoinsErrorsAndContinues(t *testing.T) {
	h := NewHandler(Config{})
	boom := errors.New("boom")
	ran := false
	h.Register("failing", 1, func(context.Context) error { return boom })
	h.Register("after", 2, func(context.Context) error { ran = true; return nil })

	err := h.Shutdown(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.True(t, ran)
}

func TestShutdown_Timeout(t *testing.T) {
	h := NewHandler(Config{Timeout: 20 * time.Millisecond})
	h.Register("slow", 1, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	h.Register("never", 2, func(context.Context) error {
		t.Error("hook after timeout should not run")
		return nil
	})

	err := h.Shutdown(context.Background())
	assert.ErrorIs(t, err, ErrShutdownTimeout)
}

func TestShutdown_Twice(t *testing.T) {
	h := NewHandler(Config{})
	require.NoError(t, h.Shutdown(context.Background()))
	assert.ErrorIs(t, h.Shutdown(context.Background()), ErrAlreadyClosed)

	select {
	case <-h.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestWait_ContextCancelRunsHooks(t *testing.T) {
	h := NewHandler(Config{})
	called := make(chan struct{})
	h.Register("http", PriorityHTTP, func(context.Context) error {
		close(called)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.Wait(ctx) }()
	cancel()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return")
	}
	<-called
}

func TestWait_ReturnsAfterShutdown(t *testing.T) {
	h := NewHandler(Config{})
	errc := make(chan error, 1)
	go func() { errc <- h.Wait(context.Background()) }()

	require.NoError(t, h.Shutdown(context.Background()))
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return")
	}
}
