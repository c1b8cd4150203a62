package httpserver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tgauth/pkg/httpserver"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

// start runs srv in the background and waits until it accepts connections.
func start(t *testing.T, ctx context.Context, handler http.Handler, opts ...httpserver.Option) (*httpserver.Server, string, <-chan error) {
	t.Helper()
	addr := freeAddr(t)
	listening := make(chan struct{})
	opts = append([]httpserver.Option{
		httpserver.WithAddr(addr),
		httpserver.WithStartHook(func(*slog.Logger) { close(listening) }),
	}, opts...)
	srv := httpserver.New(opts...)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, handler) }()
	<-listening

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, time.Second, 10*time.Millisecond)
	return srv, addr, done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not return")
		return nil
	}
}

func TestServer_HealthEndpoints(t *testing.T) {
	t.Parallel()

	var ready atomic.Bool
	mux := http.NewServeMux()
	mux.Handle("GET /healthz", httpserver.LivenessHandler())
	mux.Handle("GET /readyz", httpserver.ReadinessHandler(nil, time.Second, httpserver.Check{
		Name: "postgres",
		Fn: func(context.Context) error {
			if !ready.Load() {
				return errors.New("migrations pending")
			}
			return nil
		},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, addr, done := start(t, ctx, mux)

	get := func(path string) (int, string) {
		resp, err := http.Get("http://" + addr + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ALIVE", body)

	code, body = get("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body, `"postgres":"fail"`)

	ready.Store(true)
	code, _ = get("/readyz")
	assert.Equal(t, http.StatusOK, code)

	cancel()
	require.NoError(t, wait(t, done))
}

func TestServer_DrainsInFlightRequests(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	longPoll := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusNoContent)
	})

	var stopped atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, addr, done := start(t, ctx, longPoll,
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithStopHook(func(*slog.Logger) { stopped.Store(true) }),
	)

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + addr + "/handoff/abc?wait=25")
		if err != nil {
			status <- 0
			return
		}
		_ = resp.Body.Close()
		status <- resp.StatusCode
	}()
	<-entered

	cancel()
	time.Sleep(50 * time.Millisecond)
	assert.False(t, stopped.Load(), "shutdown finished before the request drained")
	close(release)

	assert.Equal(t, http.StatusNoContent, <-status)
	require.NoError(t, wait(t, done))
	assert.True(t, stopped.Load())
}

func TestServer_Errors(t *testing.T) {
	t.Parallel()

	t.Run("listener failure", func(t *testing.T) {
		t.Parallel()
		err := httpserver.New(httpserver.WithAddr(":invalid")).Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})

	t.Run("second run while serving", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		srv, _, done := start(t, ctx, http.NotFoundHandler())

		assert.ErrorIs(t, srv.Run(ctx, http.NotFoundHandler()), httpserver.ErrStart)

		require.NoError(t, srv.Shutdown(context.Background()))
		require.NoError(t, wait(t, done))
		assert.NoError(t, srv.Shutdown(context.Background()), "repeated shutdown is a no-op")
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addr := freeAddr(t)
	srv := httpserver.NewFromConfig(httpserver.Config{Addr: addr, ShutdownTimeout: time.Second})

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, http.NotFoundHandler()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, wait(t, done))
}
