package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTouchRetries = 3

// redisGetter is satisfied by both the client and a WATCH transaction.
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore implements Store on Redis.
//
// Key layout (prefix defaults to "tgsession:"):
//
//	<prefix>sid:<session id>     JSON record, expires after the session timeout
//	<prefix>token:<auth token>   session id, same expiry
//	<prefix>tg:<telegram id>     sorted set of session ids scored by last activity
//	<prefix>activity             sorted set of all session ids scored by last activity
//
// Touch relies on WATCH/MULTI, so every key of a session must live on the same node.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption is a functional option for RedisStore
type RedisOption func(*RedisStore)

// WithRedisPrefix sets the key prefix
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithRedisTTL sets the key expiry; it should match the session timeout
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "tgsession:",
		ttl:    7 * 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create stores a new record. The auth token is reserved first so a reused token fails fast.
func (s *RedisStore) Create(ctx context.Context, rec *Record) error {
	if rec == nil || rec.SessionID == "" {
		return ErrInvalidSession
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}

	if rec.AuthToken != "" {
		ok, err := s.client.SetNX(ctx, s.tokenKey(rec.AuthToken), rec.SessionID, s.ttl).Result()
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		if !ok {
			return ErrDuplicateAuthToken
		}
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.sidKey(rec.SessionID), data, s.ttl)
		s.index(ctx, p, rec)
		return nil
	})
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// GetBySessionID retrieves a record by session ID
func (s *RedisStore) GetBySessionID(ctx context.Context, sessionID string) (*Record, error) {
	return s.get(ctx, s.client, sessionID)
}

// GetByTelegramID retrieves the most recently active record for the Telegram user.
// Members whose record has already expired are pruned from the index.
func (s *RedisStore) GetByTelegramID(ctx context.Context, telegramID int64) (*Record, error) {
	key := s.tgKey(telegramID)

	members, err := s.client.ZRevRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	if len(members) == 0 {
		return nil, ErrSessionNotFound
	}

	cmds := make([]*redis.StringCmd, len(members))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, sid := range members {
			cmds[i] = p.Get(ctx, s.sidKey(sid))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var (
		found *Record
		stale []any
	)
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			stale = append(stale, members[i])
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			stale = append(stale, members[i])
			continue
		}
		if found == nil || newer(&rec, found) {
			found = &rec
		}
	}

	if len(stale) > 0 {
		_ = s.client.ZRem(ctx, key, stale...).Err()
	}

	if found == nil {
		return nil, ErrSessionNotFound
	}
	return found, nil
}

// GetByAuthToken retrieves a record by auth token
func (s *RedisStore) GetByAuthToken(ctx context.Context, authToken string) (*Record, error) {
	if authToken == "" {
		return nil, ErrSessionNotFound
	}

	sid, err := s.client.Get(ctx, s.tokenKey(authToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return s.get(ctx, s.client, sid)
}

// Touch advances the last activity time and refreshes key expiry
func (s *RedisStore) Touch(ctx context.Context, sessionID string, at time.Time) error {
	key := s.sidKey(sessionID)

	txf := func(tx *redis.Tx) error {
		rec, err := s.get(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if !at.After(rec.LastActivity) {
			return nil
		}
		rec.LastActivity = at

		data, err := json.Marshal(rec)
		if err != nil {
			return errors.Join(ErrInvalidSession, err)
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, s.ttl)
			s.index(ctx, p, rec)
			if rec.AuthToken != "" {
				p.Expire(ctx, s.tokenKey(rec.AuthToken), s.ttl)
			}
			return nil
		})
		return err
	}

	var err error
	for range redisTouchRetries {
		err = s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrStoreUnavailable):
		return err
	default:
		return errors.Join(ErrStoreUnavailable, err)
	}
}

// Delete removes a record and its index entries
func (s *RedisStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	rec, err := s.get(ctx, s.client, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		_ = s.client.ZRem(ctx, s.activityKey(), sessionID).Err()
		return false, nil
	}
	if err != nil {
		return false, err
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.sidKey(sessionID))
		if rec.AuthToken != "" {
			p.Del(ctx, s.tokenKey(rec.AuthToken))
		}
		p.ZRem(ctx, s.tgKey(rec.TelegramID), sessionID)
		p.ZRem(ctx, s.activityKey(), sessionID)
		return nil
	})
	if err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return true, nil
}

// DeleteExpired removes records idle since before the given time
func (s *RedisStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	sids, err := s.client.ZRangeByScore(ctx, s.activityKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(before.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}

	var (
		n    int64
		errs []error
	)
	for _, sid := range sids {
		ok, err := s.Delete(ctx, sid)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			n++
		}
	}
	return n, errors.Join(errs...)
}

func (s *RedisStore) get(ctx context.Context, c redisGetter, sessionID string) (*Record, error) {
	data, err := c.Get(ctx, s.sidKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	return &rec, nil
}

func (s *RedisStore) index(ctx context.Context, p redis.Pipeliner, rec *Record) {
	score := float64(rec.LastActivity.UnixMilli())
	tgKey := s.tgKey(rec.TelegramID)
	p.ZAdd(ctx, tgKey, redis.Z{Score: score, Member: rec.SessionID})
	p.Expire(ctx, tgKey, s.ttl)
	p.ZAdd(ctx, s.activityKey(), redis.Z{Score: score, Member: rec.SessionID})
}

func (s *RedisStore) sidKey(sessionID string) string { return s.prefix + "sid:" + sessionID }
func (s *RedisStore) tokenKey(token string) string   { return s.prefix + "token:" + token }
func (s *RedisStore) tgKey(id int64) string          { return s.prefix + "tg:" + strconv.FormatInt(id, 10) }
func (s *RedisStore) activityKey() string            { return s.prefix + "activity" }
