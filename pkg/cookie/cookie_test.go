package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tgauth/pkg/cookie"
)

const testSecret = "test-secret-key-that-is-long-enough"

func requestWith(cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("allows no secrets", func(t *testing.T) {
		m, err := cookie.New(nil)
		require.NoError(t, err)
		assert.False(t, m.CanSign())
	})

	t.Run("drops empty secrets", func(t *testing.T) {
		m, err := cookie.New([]string{"", testSecret})
		require.NoError(t, err)
		assert.True(t, m.CanSign())
	})

	t.Run("rejects short secrets", func(t *testing.T) {
		_, err := cookie.New([]string{"short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})
}

func TestManager_Plain(t *testing.T) {
	t.Parallel()

	m, err := cookie.New(nil, cookie.WithSecure(true))
	require.NoError(t, err)

	t.Run("set applies defaults and overrides", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "sessionId", "abc", cookie.WithTTL(time.Minute)))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "sessionId", c.Name)
		assert.Equal(t, "abc", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 60, c.MaxAge)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("get returns value", func(t *testing.T) {
		v, err := m.Get(requestWith(&http.Cookie{Name: "sessionId", Value: "abc"}), "sessionId")
		require.NoError(t, err)
		assert.Equal(t, "abc", v)
	})

	t.Run("get missing cookie", func(t *testing.T) {
		_, err := m.Get(requestWith(), "sessionId")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("delete expires cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		m.Delete(w, "sessionId")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
		assert.Empty(t, cookies[0].Value)
	})
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	sign := func(t *testing.T, value string) *http.Cookie {
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "tg_handoff", value))
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		return cookies[0]
	}

	t.Run("round trip", func(t *testing.T) {
		c := sign(t, "token-1")
		assert.NotEqual(t, "token-1", c.Value)

		v, err := m.GetSigned(requestWith(c), "tg_handoff")
		require.NoError(t, err)
		assert.Equal(t, "token-1", v)
	})

	t.Run("tampered signature", func(t *testing.T) {
		c := sign(t, "token-1")
		encoded, _, _ := strings.Cut(c.Value, "|")
		c.Value = encoded + "|AAAA"

		_, err := m.GetSigned(requestWith(c), "tg_handoff")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := m.GetSigned(requestWith(&http.Cookie{Name: "tg_handoff", Value: "plain"}), "tg_handoff")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})

	t.Run("rotated secret still verifies", func(t *testing.T) {
		c := sign(t, "token-2")

		rotated, err := cookie.New([]string{"another-secret-key-that-is-long-enough", testSecret})
		require.NoError(t, err)

		v, err := rotated.GetSigned(requestWith(c), "tg_handoff")
		require.NoError(t, err)
		assert.Equal(t, "token-2", v)
	})

	t.Run("signing without secret", func(t *testing.T) {
		plain, err := cookie.New(nil)
		require.NoError(t, err)

		err = plain.SetSigned(httptest.NewRecorder(), "tg_handoff", "x")
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("secrets are trimmed", func(t *testing.T) {
		cfg := cookie.DefaultConfig()
		cfg.Secrets = []string{" " + testSecret + " ", ""}
		cfg.Secure = true

		m, err := cookie.NewFromConfig(cfg)
		require.NoError(t, err)
		assert.True(t, m.CanSign())

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "a", "b"))
		c := w.Result().Cookies()[0]
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("same site none forces secure", func(t *testing.T) {
		cfg := cookie.DefaultConfig()
		cfg.SameSite = "None"

		m, err := cookie.NewFromConfig(cfg)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "a", "b"))
		c := w.Result().Cookies()[0]
		assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
		assert.True(t, c.Secure)
	})

	t.Run("unknown same site", func(t *testing.T) {
		cfg := cookie.DefaultConfig()
		cfg.SameSite = "sideways"

		_, err := cookie.NewFromConfig(cfg)
		assert.ErrorIs(t, err, cookie.ErrInvalidSameSite)
	})

	t.Run("ttl under a second is a session cookie", func(t *testing.T) {
		m, err := cookie.NewFromConfig(cookie.DefaultConfig())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "a", "b", cookie.WithTTL(500*time.Millisecond)))
		assert.Zero(t, w.Result().Cookies()[0].MaxAge)
	})
}
