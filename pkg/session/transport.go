package session

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/tgauth/pkg/cookie"
)

// Transport defines how session IDs are transmitted between client and server
type Transport interface {
	// GetToken extracts the session ID from the request
	GetToken(r *http.Request) (string, error)

	// SetToken sends the session ID in the response
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error

	// ClearToken removes the session ID from the response
	ClearToken(w http.ResponseWriter) error
}

// DefaultTransport resolves the session ID from the cookie, then the bearer
// Authorization header, then the custom session header.
func DefaultTransport(cookieMgr *cookie.Manager, cfg Config) *CompositeTransport {
	return NewCompositeTransport(
		NewCookieTransport(cookieMgr, cfg.CookieName, cfg.SecureCookies),
		NewBearerTransport(),
		NewHeaderTransport(cfg.HeaderName),
	)
}
