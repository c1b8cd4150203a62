package environment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tgauth/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want environment.Environment
	}{
		{"", environment.Development},
		{"dev", environment.Development},
		{"Development", environment.Development},
		{"prod", environment.Production},
		{" PRODUCTION ", environment.Production},
		{"stage", environment.Staging},
		{"staging", environment.Staging},
		{"qa", environment.Environment("qa")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, environment.Parse(tt.in))
		})
	}
}

func TestEnvironmentIsProduction(t *testing.T) {
	t.Parallel()
	assert.True(t, environment.Production.IsProduction())
	assert.True(t, environment.Staging.IsProduction())
	assert.False(t, environment.Development.IsProduction())
	assert.False(t, environment.Environment("qa").IsProduction())
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		ctx := environment.WithContext(context.Background(), environment.Production)
		assert.Equal(t, environment.Production, environment.FromContext(ctx))
		assert.True(t, environment.IsProduction(ctx))
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, environment.FromContext(context.Background()))
		assert.False(t, environment.IsProduction(context.Background()))
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()
	extract := environment.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(environment.WithContext(context.Background(), environment.Staging))
	assert.True(t, ok)
	assert.Equal(t, "env", attr.Key)
	assert.Equal(t, "staging", attr.Value.String())
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	var got environment.Environment
	h := environment.Middleware(environment.Staging)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = environment.FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, environment.Staging, got)
}
