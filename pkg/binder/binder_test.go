package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tgauth/pkg/binder"
)

type confirmRequest struct {
	Token      string `json:"token"`
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
}

type claimRequest struct {
	Token string   `path:"token"`
	Wait  int      `query:"wait"`
	Debug *bool    `query:"debug"`
	Tags  []string `query:"tag"`
	Other string
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":"abc","telegram_id":42,"first_name":"Ada"}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		var req confirmRequest
		require.NoError(t, binder.JSON()(r, &req))
		assert.Equal(t, confirmRequest{Token: "abc", TelegramID: 42, FirstName: "Ada"}, req)
	})

	t.Run("no body is not applicable", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		var req confirmRequest
		assert.ErrorIs(t, binder.JSON()(r, &req), binder.ErrBinderNotApplicable)
	})

	t.Run("wrong media type", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`token=abc`))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var req confirmRequest
		assert.ErrorIs(t, binder.JSON()(r, &req), binder.ErrUnsupportedMediaType)
	})

	for name, body := range map[string]string{
		"unknown field": `{"token":"abc","admin":true}`,
		"trailing data": `{"token":"abc"}{"token":"def"}`,
		"empty body":    ``,
		"wrong type":    `{"telegram_id":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")

			var req confirmRequest
			assert.ErrorIs(t, binder.JSON()(r, &req), binder.ErrFailedToParseJSON)
		})
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("binds tagged fields only", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/?wait=15&debug=yes&tag=a,b&tag=c&other=x&token=y", nil)

		var req claimRequest
		require.NoError(t, binder.Query()(r, &req))
		assert.Equal(t, 15, req.Wait)
		require.NotNil(t, req.Debug)
		assert.True(t, *req.Debug)
		assert.Equal(t, []string{"a", "b", "c"}, req.Tags)
		assert.Empty(t, req.Other)
		assert.Empty(t, req.Token)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/?wait=soon", nil)

		var req claimRequest
		assert.ErrorIs(t, binder.Query()(r, &req), binder.ErrFailedToParseQuery)
	})

	t.Run("non-struct target", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/?wait=1", nil)

		var n int
		assert.ErrorIs(t, binder.Query()(r, &n), binder.ErrFailedToParseQuery)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	params := map[string]string{"token": "tok_123"}
	extract := func(_ *http.Request, key string) string { return params[key] }

	t.Run("binds route parameter", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/handoff/tok_123", nil)

		var req claimRequest
		require.NoError(t, binder.Path(extract)(r, &req))
		assert.Equal(t, "tok_123", req.Token)
		assert.Zero(t, req.Wait)
	})

	t.Run("nil extractor", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		var req claimRequest
		assert.ErrorIs(t, binder.Path(nil)(r, &req), binder.ErrFailedToParsePath)
	})
}
