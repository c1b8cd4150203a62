package session

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithStore sets the primary session store
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.primary = store
	}
}

// WithFallback sets the store used while the primary is failing
func WithFallback(store Store) Option {
	return func(m *Manager) {
		m.fallback = store
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithTimeout sets the idle timeout for sessions
func WithTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.config.Timeout = timeout
	}
}

// WithLogger sets the logger used to report storage failures
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
