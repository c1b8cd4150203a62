package session_test

import (
	"context"
	"math/rand/v2"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tgauth/pkg/session"
)

// runStoreSuite checks the behaviour every Store implementation must share.
// Identifiers are random so the suite can run against shared databases.
func runStoreSuite(t *testing.T, store session.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	record := func(tgID int64, token string, at time.Time) *session.Record {
		return &session.Record{
			ID:           uuid.New(),
			SessionID:    uuid.NewString(),
			Profile:      testProfile(tgID),
			AuthToken:    token,
			CreatedAt:    at,
			LastActivity: at,
		}
	}
	tgID := func() int64 { return rand.Int64N(1 << 40) }

	t.Run("create and get by session id", func(t *testing.T) {
		rec := record(tgID(), "", base)
		require.NoError(t, store.Create(ctx, rec))

		got, err := store.GetBySessionID(ctx, rec.SessionID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, rec.Profile, got.Profile)
		assert.Empty(t, got.AuthToken)
		assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, rec.LastActivity.Equal(got.LastActivity))

		_, err = store.GetBySessionID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("auth token lookup and uniqueness", func(t *testing.T) {
		token := uuid.NewString()
		rec := record(tgID(), token, base)
		require.NoError(t, store.Create(ctx, rec))

		got, err := store.GetByAuthToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, rec.SessionID, got.SessionID)

		err = store.Create(ctx, record(tgID(), token, base))
		assert.ErrorIs(t, err, session.ErrDuplicateAuthToken)

		_, err = store.GetByAuthToken(ctx, uuid.NewString())
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("telegram id returns most recently active", func(t *testing.T) {
		id := tgID()
		first := record(id, "", base.Add(-time.Hour))
		second := record(id, "", base.Add(-time.Minute))
		require.NoError(t, store.Create(ctx, first))
		require.NoError(t, store.Create(ctx, second))

		got, err := store.GetByTelegramID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, second.SessionID, got.SessionID)

		require.NoError(t, store.Touch(ctx, first.SessionID, base))
		got, err = store.GetByTelegramID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, first.SessionID, got.SessionID)

		_, err = store.GetByTelegramID(ctx, tgID())
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("touch never moves backwards", func(t *testing.T) {
		rec := record(tgID(), "", base)
		require.NoError(t, store.Create(ctx, rec))

		require.NoError(t, store.Touch(ctx, rec.SessionID, base.Add(time.Hour)))
		require.NoError(t, store.Touch(ctx, rec.SessionID, base.Add(time.Minute)))

		got, err := store.GetBySessionID(ctx, rec.SessionID)
		require.NoError(t, err)
		assert.True(t, base.Add(time.Hour).Equal(got.LastActivity))

		assert.ErrorIs(t, store.Touch(ctx, uuid.NewString(), base), session.ErrSessionNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		token := uuid.NewString()
		rec := record(tgID(), token, base)
		require.NoError(t, store.Create(ctx, rec))

		ok, err := store.Delete(ctx, rec.SessionID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Delete(ctx, rec.SessionID)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = store.GetByAuthToken(ctx, token)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("delete expired keeps live records", func(t *testing.T) {
		stale := record(tgID(), "", base.Add(-30*24*time.Hour))
		fresh := record(tgID(), "", base)
		require.NoError(t, store.Create(ctx, stale))
		require.NoError(t, store.Create(ctx, fresh))

		n, err := store.DeleteExpired(ctx, base.Add(-week))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		_, err = store.GetBySessionID(ctx, stale.SessionID)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
		_, err = store.GetBySessionID(ctx, fresh.SessionID)
		assert.NoError(t, err)
	})
}

func TestMemoryStore_Suite(t *testing.T) {
	runStoreSuite(t, session.NewMemoryStore())
}

func requireEnv(t *testing.T, name string) string {
	t.Helper()
	v := os.Getenv(name)
	if v == "" {
		t.Skipf("%s is not set", name)
	}
	return v
}
