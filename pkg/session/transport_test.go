package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tgauth/pkg/cookie"
	"github.com/dmitrymomot/tgauth/pkg/session"
)

func TestCookieTransport(t *testing.T) {
	t.Parallel()

	cookieMgr, err := cookie.New(nil)
	require.NoError(t, err)
	tr := session.NewCookieTransport(cookieMgr, "sessionId", true)

	t.Run("set token", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, tr.SetToken(w, "abc", time.Hour))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "sessionId", c.Name)
		assert.Equal(t, "abc", c.Value)
		assert.Equal(t, 3600, c.MaxAge)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("get token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := tr.GetToken(r)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		r.AddCookie(&http.Cookie{Name: "sessionId", Value: "abc"})
		token, err := tr.GetToken(r)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})

	t.Run("clear token", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, tr.ClearToken(w))
		assert.Equal(t, -1, w.Result().Cookies()[0].MaxAge)
	})
}

func TestHeaderTransport(t *testing.T) {
	t.Parallel()

	t.Run("bearer", func(t *testing.T) {
		tr := session.NewBearerTransport()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc")
		token, err := tr.GetToken(r)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)

		r.Header.Set("Authorization", "Bearer ")
		_, err = tr.GetToken(r)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		w := httptest.NewRecorder()
		require.NoError(t, tr.SetToken(w, "abc", 0))
		assert.Equal(t, "Bearer abc", w.Header().Get("Authorization"))
	})

	t.Run("custom header without prefix", func(t *testing.T) {
		tr := session.NewHeaderTransport("X-Session-ID")

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Session-ID", "abc")
		token, err := tr.GetToken(r)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)

		w := httptest.NewRecorder()
		require.NoError(t, tr.SetToken(w, "abc", time.Hour))
		assert.Equal(t, "abc", w.Header().Get("X-Session-ID"))
		assert.NotEmpty(t, w.Header().Get("X-Session-ID-Expires"))

		require.NoError(t, tr.ClearToken(w))
		assert.Empty(t, w.Header().Get("X-Session-ID"))
	})

	t.Run("lenient prefix", func(t *testing.T) {
		tr := session.NewHeaderTransport("X-Token", session.WithHeaderPrefix("Token "))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Token", "abc")
		token, err := tr.GetToken(r)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})
}

func TestCompositeTransport_SetTokenUsesFirst(t *testing.T) {
	t.Parallel()

	cookieMgr, err := cookie.New(nil)
	require.NoError(t, err)
	tr := session.DefaultTransport(cookieMgr, session.DefaultConfig())

	w := httptest.NewRecorder()
	require.NoError(t, tr.SetToken(w, "abc", time.Hour))

	assert.Len(t, w.Result().Cookies(), 1)
	assert.Empty(t, w.Header().Get("Authorization"))
	assert.Empty(t, w.Header().Get("X-Session-ID"))
}
