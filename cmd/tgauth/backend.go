package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tgauth/pkg/config"
	"github.com/dmitrymomot/tgauth/pkg/httpserver"
	"github.com/dmitrymomot/tgauth/pkg/logger"
	mongoconn "github.com/dmitrymomot/tgauth/pkg/mongo"
	"github.com/dmitrymomot/tgauth/pkg/pg"
	redisconn "github.com/dmitrymomot/tgauth/pkg/redis"
	"github.com/dmitrymomot/tgauth/pkg/session"
)

// backend owns the connection behind the primary session store.
type backend struct {
	sessions session.Store
	redis    redis.UniversalClient
	checks   []httpserver.Check
	closers  []func()
}

// readiness reports the connection behind the session store; the memory backend is always ready
func (b *backend) readiness(log *slog.Logger) http.HandlerFunc {
	return httpserver.ReadinessHandler(log, 2*time.Second, b.checks...)
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend connects the store selected by SESSION_BACKEND. Connection
// settings are loaded only for the selected backend.
func openBackend(ctx context.Context, cfg session.Config, log *slog.Logger) (*backend, error) {
	b := &backend{}
	log = log.With(logger.Backend(cfg.Backend))

	switch cfg.Backend {
	case session.BackendPostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
			b.close()
			return nil, err
		}
		b.sessions = session.NewPostgresStore(pool)
		b.checks = append(b.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool, session.PostgresTable)})

	case session.BackendRedis:
		var redisCfg redisconn.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, err
		}
		client, err := redisconn.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.redis = client
		b.sessions = session.NewRedisStore(client,
			session.WithRedisPrefix(cfg.RedisKeyPrefix),
			session.WithRedisTTL(cfg.Timeout),
		)
		b.checks = append(b.checks, httpserver.Check{Name: "redis", Fn: redisconn.Healthcheck(client)})

	case session.BackendMongo:
		var mongoCfg mongoconn.Config
		if err := config.Load(&mongoCfg); err != nil {
			return nil, err
		}
		client, db, err := mongoconn.NewWithDatabase(ctx, mongoCfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = client.Disconnect(context.WithoutCancel(ctx)) })
		store := session.NewMongoStore(db.Collection(cfg.MongoCollection))
		if err := store.EnsureIndexes(ctx); err != nil {
			b.close()
			return nil, err
		}
		b.sessions = store
		b.checks = append(b.checks, httpserver.Check{Name: "mongo", Fn: mongoconn.Healthcheck(client)})

	case session.BackendMemory, "":
		log.Warn("sessions are kept in memory and lost on restart")

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}

	log.Info("session backend ready")
	return b, nil
}
