package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tgauth/handler"
	"github.com/dmitrymomot/tgauth/pkg/config"
	"github.com/dmitrymomot/tgauth/pkg/httpserver"
	"github.com/dmitrymomot/tgauth/pkg/ratelimiter"
	"github.com/dmitrymomot/tgauth/pkg/session"
)

func TestOpenBackend(t *testing.T) {
	t.Parallel()
	log := slog.New(slog.DiscardHandler)

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		b, err := openBackend(t.Context(), session.Config{Backend: session.BackendMemory}, log)
		require.NoError(t, err)
		defer b.close()
		assert.Nil(t, b.sessions)
		assert.Nil(t, b.redis)
		assert.Empty(t, b.checks)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		_, err := openBackend(t.Context(), session.Config{Backend: "cassandra"}, log)
		assert.ErrorContains(t, err, "cassandra")
	})
}

func TestNewLimiter(t *testing.T) {
	t.Parallel()

	limiter, stop, err := newLimiter(&backend{}, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
	require.NoError(t, err)
	defer stop()

	first, err := limiter.Allow(t.Context(), "ip")
	require.NoError(t, err)
	assert.True(t, first.Allowed())

	second, err := limiter.Allow(t.Context(), "ip")
	require.NoError(t, err)
	assert.False(t, second.Allowed())

	_, _, err = newLimiter(&backend{}, ratelimiter.Config{})
	assert.Error(t, err)
}

func TestHome(t *testing.T) {
	t.Parallel()

	sessions := session.NewManager()
	sid, err := sessions.Create(t.Context(), session.Profile{TelegramID: 42, FirstName: "Ada"}, "")
	require.NoError(t, err)
	authn := session.NewAuthenticator(sessions, session.NewHeaderTransport("X-Session-ID"))
	h := authn.Middleware(handler.Wrap(home("/api/auth/telegram")))

	t.Run("anonymous is redirected to login", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/api/auth/telegram/login", rec.Header().Get("Location"))
	})

	t.Run("signed in gets profile", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Session-ID", sid)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"first_name":"Ada"`)
		assert.Contains(t, rec.Body.String(), sid)
	})
}

func TestBackend(t *testing.T) {
	t.Parallel()

	t.Run("closes in reverse order", func(t *testing.T) {
		t.Parallel()
		var order []string
		b := &backend{closers: []func(){
			func() { order = append(order, "pool") },
			func() { order = append(order, "limiter") },
		}}
		b.close()
		assert.Equal(t, []string{"limiter", "pool"}, order)
	})

	t.Run("readiness reports store checks", func(t *testing.T) {
		t.Parallel()
		b := &backend{checks: []httpserver.Check{{
			Name: "postgres",
			Fn:   func(context.Context) error { return errors.New("table missing") },
		}}}
		rec := httptest.NewRecorder()
		b.readiness(slog.New(slog.DiscardHandler))(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"postgres":"fail"`)
	})

	t.Run("memory backend is ready", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		(&backend{}).readiness(nil)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAppConfigDefaults(t *testing.T) {
	t.Parallel()

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))

	assert.Greater(t, cfg.HTTP.WriteTimeout, cfg.Handoff.HandoffMaxWait, "claim long-poll must end before the write deadline")
	assert.Equal(t, "lax", cfg.Cookie.SameSite)
	assert.Equal(t, "/api/auth/telegram", cfg.MountPath)
}
