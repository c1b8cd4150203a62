package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/tgauth/pkg/session"
)

var errBackendDown = errors.New("backend down")

// clock is a manually advanced time source
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// flakyStore wraps a MemoryStore and fails every call while down is set.
// writesDown fails only Create, leaving reads working.
type flakyStore struct {
	*session.MemoryStore
	down       atomic.Bool
	writesDown atomic.Bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: session.NewMemoryStore()}
}

func (s *flakyStore) Create(ctx context.Context, rec *session.Record) error {
	if s.down.Load() || s.writesDown.Load() {
		return errBackendDown
	}
	return s.MemoryStore.Create(ctx, rec)
}

func (s *flakyStore) GetBySessionID(ctx context.Context, sid string) (*session.Record, error) {
	if s.down.Load() {
		return nil, errBackendDown
	}
	return s.MemoryStore.GetBySessionID(ctx, sid)
}

func (s *flakyStore) GetByTelegramID(ctx context.Context, id int64) (*session.Record, error) {
	if s.down.Load() {
		return nil, errBackendDown
	}
	return s.MemoryStore.GetByTelegramID(ctx, id)
}

func (s *flakyStore) GetByAuthToken(ctx context.Context, token string) (*session.Record, error) {
	if s.down.Load() {
		return nil, errBackendDown
	}
	return s.MemoryStore.GetByAuthToken(ctx, token)
}

func (s *flakyStore) Touch(ctx context.Context, sid string, at time.Time) error {
	if s.down.Load() {
		return errBackendDown
	}
	return s.MemoryStore.Touch(ctx, sid, at)
}

func (s *flakyStore) Delete(ctx context.Context, sid string) (bool, error) {
	if s.down.Load() {
		return false, errBackendDown
	}
	return s.MemoryStore.Delete(ctx, sid)
}

func (s *flakyStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if s.down.Load() {
		return 0, errBackendDown
	}
	return s.MemoryStore.DeleteExpired(ctx, before)
}

// racyStore deletes the record between lookup and touch, like a concurrent reaper would
type racyStore struct {
	*session.MemoryStore
}

func (s *racyStore) Touch(ctx context.Context, sid string, at time.Time) error {
	_, _ = s.MemoryStore.Delete(ctx, sid)
	return s.MemoryStore.Touch(ctx, sid, at)
}

func testProfile(id int64) session.Profile {
	return session.Profile{
		TelegramID: id,
		FirstName:  "Pavel",
		LastName:   "Durov",
		Username:   "durov",
		PhotoURL:   "https://t.me/i/userpic/320/durov.jpg",
	}
}
