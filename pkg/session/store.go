package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence.
// Lookups return ErrSessionNotFound when nothing matches; expiry is decided by the Manager.
type Store interface {
	// Create stores a new record
	Create(ctx context.Context, rec *Record) error

	// GetBySessionID retrieves a record by its session ID
	GetBySessionID(ctx context.Context, sessionID string) (*Record, error)

	// GetByTelegramID retrieves the most recently active record for a Telegram user
	GetByTelegramID(ctx context.Context, telegramID int64) (*Record, error)

	// GetByAuthToken retrieves a record by its auth token
	GetByAuthToken(ctx context.Context, authToken string) (*Record, error)

	// Touch moves LastActivity forward to at; it never moves it backwards
	Touch(ctx context.Context, sessionID string, at time.Time) error

	// Delete removes a record and reports whether it existed
	Delete(ctx context.Context, sessionID string) (bool, error)

	// DeleteExpired removes records whose LastActivity is before the given time
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
