package clientip

import (
	"context"
	"net/http"
)

type ctxKey struct{}

// NewContext returns ctx carrying the client IP
func NewContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ip)
}

// FromContext returns the IP stored by Middleware, or "" outside a request
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ctxKey{}).(string)
	return ip
}

// Middleware resolves the client IP once per request so the rate limiter and
// the logger see the same value. Proxy headers count only with TrustProxyHeaders.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	resolve := RemoteIP
	if cfg.TrustProxyHeaders {
		resolve = GetIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), resolve(r))))
		})
	}
}
