package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tgauth/pkg/logger"
)

// Manager handles the session lifecycle on top of a primary store
// and an in-memory fallback used while the primary is failing.
type Manager struct {
	primary  Store
	fallback Store
	config   Config
	log      *slog.Logger
	now      func() time.Time
}

// NewManager creates a new session manager with the given options.
// Without a primary store the Manager keeps sessions in memory only.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		log:    slog.New(slog.DiscardHandler),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.primary == nil {
		if m.fallback != nil {
			m.primary, m.fallback = m.fallback, nil
		} else {
			m.primary = NewMemoryStore()
		}
	}

	if _, isMemory := m.primary.(*MemoryStore); !isMemory && m.fallback == nil {
		m.fallback = NewMemoryStore()
	}

	if m.fallback == m.primary {
		m.fallback = nil
	}

	m.log = m.log.With(logger.Component("session"))

	return m
}

// Timeout returns the configured idle timeout
func (m *Manager) Timeout() time.Duration {
	return m.config.Timeout
}

// Create stores a new session for the profile and returns its ID.
// A primary store failure is logged and the record is written to the fallback instead.
func (m *Manager) Create(ctx context.Context, p Profile, authToken string) (string, error) {
	sid, err := generateSessionID()
	if err != nil {
		return "", err
	}

	now := m.now()
	rec := &Record{
		ID:           uuid.New(),
		SessionID:    sid,
		Profile:      p,
		AuthToken:    authToken,
		CreatedAt:    now,
		LastActivity: now,
	}

	if authToken != "" && m.fallback != nil && m.tokenTaken(ctx, m.fallback, authToken) {
		return "", ErrDuplicateAuthToken
	}

	err = m.primary.Create(ctx, rec)
	if err == nil {
		return sid, nil
	}
	if errors.Is(err, ErrDuplicateAuthToken) || m.fallback == nil {
		return "", err
	}
	if authToken != "" && m.tokenTaken(ctx, m.primary, authToken) {
		return "", ErrDuplicateAuthToken
	}

	m.log.WarnContext(ctx, "primary store create failed, using fallback",
		logger.SessionID(sid),
		logger.TelegramID(p.TelegramID),
		logger.Error(err),
	)

	if err := m.fallback.Create(ctx, rec); err != nil {
		return "", err
	}
	return sid, nil
}

// Get resolves a session by its session ID
func (m *Manager) Get(ctx context.Context, sessionID string) (*Record, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	return m.lookup(ctx, func(ctx context.Context, s Store) (*Record, error) {
		return s.GetBySessionID(ctx, sessionID)
	})
}

// GetByTelegramID resolves the most recently active session of a Telegram user.
// Both stores are consulted so a session written to the fallback during an
// outage competes with the primary's candidate; only the winner is touched.
func (m *Manager) GetByTelegramID(ctx context.Context, telegramID int64) (*Record, error) {
	now := m.now()

	var (
		best      *Record
		bestStore Store
	)
	for _, s := range m.stores() {
		rec, err := s.GetByTelegramID(ctx, telegramID)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) {
				m.log.WarnContext(ctx, "session lookup failed, trying fallback", logger.Error(err))
			}
			continue
		}
		// A store's newest candidate being expired means all of its others are too.
		if rec.Expired(now, m.config.Timeout) {
			m.deleteExpired(ctx, s, rec)
			continue
		}
		if best == nil || newer(rec, best) {
			best, bestStore = rec, s
		}
	}
	if best == nil {
		return nil, ErrSessionNotFound
	}

	rec, err := m.resolve(ctx, bestStore, func(context.Context, Store) (*Record, error) {
		return best, nil
	})
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			m.log.WarnContext(ctx, "session touch failed", logger.SessionID(best.SessionID), logger.Error(err))
		}
		return nil, ErrSessionNotFound
	}
	return rec, nil
}

// GetByAuthToken resolves a session by the auth token it was created with
func (m *Manager) GetByAuthToken(ctx context.Context, authToken string) (*Record, error) {
	if authToken == "" {
		return nil, ErrSessionNotFound
	}
	return m.lookup(ctx, func(ctx context.Context, s Store) (*Record, error) {
		return s.GetByAuthToken(ctx, authToken)
	})
}

// Redeem exchanges the session bound to authToken for a new session of the
// same profile that carries no token. The bound session is deleted, so only
// one caller can redeem a token. Bound sessions created more than maxAge ago
// are deleted and reported as ErrAuthTokenExpired; maxAge <= 0 disables the check.
func (m *Manager) Redeem(ctx context.Context, authToken string, maxAge time.Duration) (string, *Record, error) {
	bound, err := m.GetByAuthToken(ctx, authToken)
	if err != nil {
		return "", nil, err
	}

	if !m.Delete(ctx, bound.SessionID) {
		return "", nil, ErrSessionNotFound
	}
	if maxAge > 0 && m.now().Sub(bound.CreatedAt) > maxAge {
		return "", nil, ErrAuthTokenExpired
	}

	sid, err := m.Create(ctx, bound.Profile, "")
	if err != nil {
		return "", nil, err
	}
	rec, err := m.Get(ctx, sid)
	if err != nil {
		return "", nil, err
	}
	return sid, rec, nil
}

// Delete removes the session from every store.
// It reports whether any store held it; storage failures are logged and count as absent.
func (m *Manager) Delete(ctx context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}

	var deleted bool
	for _, s := range m.stores() {
		ok, err := s.Delete(ctx, sessionID)
		if err != nil {
			m.log.WarnContext(ctx, "session delete failed",
				logger.SessionID(sessionID),
				logger.Error(err),
			)
			continue
		}
		deleted = deleted || ok
	}
	return deleted
}

// Sweep removes every record idle for longer than the timeout and returns how many were removed
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	before := m.now().Add(-m.config.Timeout)

	var (
		total int64
		errs  []error
	)
	for _, s := range m.stores() {
		n, err := s.DeleteExpired(ctx, before)
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

func (m *Manager) lookup(ctx context.Context, fetch func(context.Context, Store) (*Record, error)) (*Record, error) {
	for _, s := range m.stores() {
		rec, err := m.resolve(ctx, s, fetch)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			m.log.WarnContext(ctx, "session lookup failed, trying fallback", logger.Error(err))
		}
	}
	return nil, ErrSessionNotFound
}

// resolve applies lazy expiry and refreshes LastActivity for a record found in s.
func (m *Manager) resolve(ctx context.Context, s Store, fetch func(context.Context, Store) (*Record, error)) (*Record, error) {
	rec, err := fetch(ctx, s)
	if err != nil {
		return nil, err
	}

	now := m.now()
	if rec.Expired(now, m.config.Timeout) {
		m.deleteExpired(ctx, s, rec)
		return nil, ErrSessionNotFound
	}

	// The reaper may remove the record between fetch and touch; Touch reports that as not found.
	if err := s.Touch(ctx, rec.SessionID, now); err != nil {
		return nil, err
	}
	if now.After(rec.LastActivity) {
		rec.LastActivity = now
	}
	return rec, nil
}

func (m *Manager) deleteExpired(ctx context.Context, s Store, rec *Record) {
	if _, err := s.Delete(ctx, rec.SessionID); err != nil {
		m.log.WarnContext(ctx, "failed to delete expired session",
			logger.SessionID(rec.SessionID),
			logger.Error(err),
		)
	}
}

// tokenTaken reports whether s holds a live session bound to authToken.
// Lookup failures count as free; the writing store still enforces its own uniqueness.
func (m *Manager) tokenTaken(ctx context.Context, s Store, authToken string) bool {
	rec, err := s.GetByAuthToken(ctx, authToken)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			m.log.WarnContext(ctx, "auth token check failed", logger.Error(err))
		}
		return false
	}
	if rec.Expired(m.now(), m.config.Timeout) {
		m.deleteExpired(ctx, s, rec)
		return false
	}
	return true
}

func (m *Manager) stores() []Store {
	if m.fallback == nil {
		return []Store{m.primary}
	}
	return []Store{m.primary, m.fallback}
}

// generateSessionID returns 32 random bytes encoded as 64 hex characters
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return hex.EncodeToString(b), nil
}
