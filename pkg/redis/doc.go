// Package redis connects to Redis through go-redis with startup retries and
// exposes a readiness check.
//
// The returned client backs session.RedisStore when SESSION_BACKEND=redis.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil { return err }
//	defer client.Close()
//
//	store := session.NewRedisStore(client, session.WithRedisTTL(sessCfg.Timeout))
//	ready := redis.Healthcheck(client)
//
// # Errors
//
//   - ErrFailedToParseRedisConnString – REDIS_URL is malformed
//   - ErrRedisNotReady                 – every connection attempt failed
//   - ErrHealthcheckFailed             – PING failed during a readiness check
package redis
