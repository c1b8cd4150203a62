package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store interface using in-memory storage.
// It is used standalone in development and as the fallback behind a durable store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	tokens  map[string]string
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		tokens:  make(map[string]string),
	}
}

// Create stores a new record
func (m *MemoryStore) Create(ctx context.Context, rec *Record) error {
	if rec == nil || rec.SessionID == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.AuthToken != "" {
		if sid, ok := m.tokens[rec.AuthToken]; ok && sid != rec.SessionID {
			return ErrDuplicateAuthToken
		}
		m.tokens[rec.AuthToken] = rec.SessionID
	}

	m.records[rec.SessionID] = rec.Clone()
	return nil
}

// GetBySessionID retrieves a record by session ID
func (m *MemoryStore) GetBySessionID(ctx context.Context, sessionID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return rec.Clone(), nil
}

// GetByTelegramID retrieves the most recently active record for the Telegram user
func (m *MemoryStore) GetByTelegramID(ctx context.Context, telegramID int64) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found *Record
	for _, rec := range m.records {
		if rec.TelegramID != telegramID {
			continue
		}
		if found == nil || newer(rec, found) {
			found = rec
		}
	}

	if found == nil {
		return nil, ErrSessionNotFound
	}
	return found.Clone(), nil
}

// GetByAuthToken retrieves a record by auth token
func (m *MemoryStore) GetByAuthToken(ctx context.Context, authToken string) (*Record, error) {
	if authToken == "" {
		return nil, ErrSessionNotFound
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	sid, ok := m.tokens[authToken]
	if !ok {
		return nil, ErrSessionNotFound
	}
	rec, ok := m.records[sid]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return rec.Clone(), nil
}

// Touch advances the last activity time
func (m *MemoryStore) Touch(ctx context.Context, sessionID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if at.After(rec.LastActivity) {
		rec.LastActivity = at
	}
	return nil
}

// Delete removes a record by session ID
func (m *MemoryStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.deleteLocked(sessionID), nil
}

// DeleteExpired removes records idle since before the given time
func (m *MemoryStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for sid, rec := range m.records {
		if rec.LastActivity.Before(before) {
			m.deleteLocked(sid)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored records, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Close drops every record held by the store
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[string]*Record)
	m.tokens = make(map[string]string)
	return nil
}

func (m *MemoryStore) deleteLocked(sessionID string) bool {
	rec, ok := m.records[sessionID]
	if !ok {
		return false
	}
	if rec.AuthToken != "" && m.tokens[rec.AuthToken] == sessionID {
		delete(m.tokens, rec.AuthToken)
	}
	delete(m.records, sessionID)
	return true
}
