// Package pg bootstraps PostgreSQL access on top of pgx/v5: a retrying pool
// constructor, goose migrations (embedded by default) and a healthcheck.
//
// The bundled migrations create the telegram_sessions table used by
// session.PostgresStore.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil { return err }
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil { return err }
//
//	store := session.NewPostgresStore(pool)
//	ready := pg.Healthcheck(pool, session.PostgresTable)
//
// # Errors
//
// Connect and Migrate join their sentinel errors with the underlying cause so
// callers can match with errors.Is. IsNotFoundError and IsDuplicateKeyError
// classify query errors.
package pg
