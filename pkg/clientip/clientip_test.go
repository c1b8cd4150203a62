package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tgauth/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "203.0.113.7:5555", "203.0.113.7"},
		{"remote addr without port", nil, "203.0.113.7", "203.0.113.7"},
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "198.51.100.2"}, "10.0.0.1:1", "198.51.100.1"},
		{"first forwarded", map[string]string{"X-Forwarded-For": "garbage, 198.51.100.3, 10.0.0.2"}, "10.0.0.1:1", "198.51.100.3"},
		{"real ip", map[string]string{"X-Real-IP": "2001:db8::1"}, "10.0.0.1:1", "2001:db8::1"},
		{"invalid headers fall back", map[string]string{"X-Real-IP": "nope"}, "10.0.0.1:1", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.GetIP(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	capture := func(cfg clientip.Config) string {
		var got string
		h := clientip.Middleware(cfg)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = clientip.FromContext(r.Context())
		}))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", "198.51.100.9")
		h.ServeHTTP(httptest.NewRecorder(), r)
		return got
	}

	t.Run("headers ignored by default", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "10.0.0.1", capture(clientip.Config{}))
	})

	t.Run("headers trusted behind proxy", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "198.51.100.9", capture(clientip.Config{TrustProxyHeaders: true}))
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := clientip.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(clientip.NewContext(context.Background(), "203.0.113.7"))
	assert.True(t, ok)
	assert.Equal(t, "client_ip", attr.Key)
	assert.Equal(t, "203.0.113.7", attr.Value.String())
}
