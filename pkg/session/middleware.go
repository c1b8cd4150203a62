package session

import (
	"net/http"
)

// Authenticator resolves session IDs carried by requests into session records
type Authenticator struct {
	manager   *Manager
	transport Transport
}

// NewAuthenticator creates an Authenticator reading session IDs through the transport
func NewAuthenticator(m *Manager, t Transport) *Authenticator {
	return &Authenticator{manager: m, transport: t}
}

// Transport returns the transport used to read and write session IDs
func (a *Authenticator) Transport() Transport {
	return a.transport
}

// Middleware attaches the resolved session record to the request context.
// It never rejects a request; unresolved requests pass through unchanged.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, err := a.transport.GetToken(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		rec, err := a.manager.Get(r.Context(), sid)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithRecord(r.Context(), rec)))
	})
}

// RequireAuth is a middleware that rejects requests without a session record in context
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
