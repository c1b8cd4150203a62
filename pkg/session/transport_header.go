package session

import (
	"net/http"
	"strings"
	"time"
)

// HeaderTransport implements Transport using HTTP headers
type HeaderTransport struct {
	headerName string
	prefix     string
	strict     bool
}

// NewHeaderTransport creates a header-based transport without a value prefix
func NewHeaderTransport(headerName string, opts ...HeaderOption) *HeaderTransport {
	t := &HeaderTransport{
		headerName: headerName,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// NewBearerTransport reads the session ID from "Authorization: Bearer <id>"
func NewBearerTransport() *HeaderTransport {
	return NewHeaderTransport("Authorization", WithHeaderPrefix("Bearer "), WithStrictPrefix())
}

// HeaderOption is a functional option for HeaderTransport
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix sets a prefix for the header value
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) {
		t.prefix = prefix
	}
}

// WithStrictPrefix ignores header values that do not start with the prefix
func WithStrictPrefix() HeaderOption {
	return func(t *HeaderTransport) {
		t.strict = true
	}
}

// GetToken extracts the session ID from the header
func (t *HeaderTransport) GetToken(r *http.Request) (string, error) {
	value := r.Header.Get(t.headerName)
	if value == "" {
		return "", ErrSessionNotFound
	}

	if t.prefix != "" {
		if strings.HasPrefix(value, t.prefix) {
			value = strings.TrimPrefix(value, t.prefix)
		} else if t.strict {
			return "", ErrSessionNotFound
		}
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrSessionNotFound
	}
	return value, nil
}

// SetToken sends the session ID in the response header
func (t *HeaderTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	w.Header().Set(t.headerName, t.prefix+token)

	if ttl > 0 {
		w.Header().Set(t.headerName+"-Expires", time.Now().Add(ttl).Format(time.RFC3339))
	}

	return nil
}

// ClearToken removes the session header from the response
func (t *HeaderTransport) ClearToken(w http.ResponseWriter) error {
	w.Header().Del(t.headerName)
	w.Header().Del(t.headerName + "-Expires")
	return nil
}
