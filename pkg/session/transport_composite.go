package session

import (
	"net/http"
	"time"
)

// CompositeTransport tries multiple transports in order
type CompositeTransport struct {
	transports []Transport
}

// NewCompositeTransport creates a composite transport that tries multiple transports
func NewCompositeTransport(transports ...Transport) *CompositeTransport {
	return &CompositeTransport{
		transports: transports,
	}
}

// GetToken extracts the session ID from the first transport that has one
func (t *CompositeTransport) GetToken(r *http.Request) (string, error) {
	for _, transport := range t.transports {
		token, err := transport.GetToken(r)
		if err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrSessionNotFound
}

// SetToken sends the session ID through the first transport only.
// The remaining transports are client-driven and have nothing to set.
func (t *CompositeTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	if len(t.transports) == 0 {
		return nil
	}
	return t.transports[0].SetToken(w, token, ttl)
}

// ClearToken removes the session ID from the first transport
func (t *CompositeTransport) ClearToken(w http.ResponseWriter) error {
	if len(t.transports) == 0 {
		return nil
	}
	return t.transports[0].ClearToken(w)
}
