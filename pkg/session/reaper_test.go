package session_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tgauth/pkg/session"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Sweep(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return 1, s.err
}

func TestReaper(t *testing.T) {
	t.Parallel()

	t.Run("sweeps on every tick until cancelled", func(t *testing.T) {
		sw := &countingSweeper{}
		r := session.NewReaper(sw, session.WithInterval(5*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			r.Run(ctx)
			close(done)
		}()

		require.Eventually(t, func() bool { return sw.calls.Load() >= 3 }, time.Second, time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("reaper did not stop")
		}
	})

	t.Run("keeps running after failures", func(t *testing.T) {
		sw := &countingSweeper{err: errors.New("db down")}
		r := session.NewReaper(sw, session.WithInterval(5*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go r.Run(ctx)

		require.Eventually(t, func() bool { return sw.calls.Load() >= 2 }, time.Second, time.Millisecond)
	})

	t.Run("run once against manager", func(t *testing.T) {
		m, store, clk := setupManager(t)
		_, err := m.Create(context.Background(), testProfile(1), "")
		require.NoError(t, err)
		clk.Advance(week + time.Second)

		n := session.NewReaper(m).RunOnce(context.Background())
		assert.Equal(t, int64(1), n)
		assert.Equal(t, 0, store.Len())
	})
}
