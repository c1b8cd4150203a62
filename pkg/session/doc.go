// Package session stores Telegram login sessions and resolves them on
// incoming HTTP requests. It offers a durable primary store with an in-memory
// fallback, lazy and eager expiry, and pluggable transports for the session ID.
//
// # Architecture
//
// A Manager owns two stores: the primary (Postgres, Redis, MongoDB or memory)
// and a MemoryStore fallback. Every operation tries the primary first. When it
// fails the failure is logged and the fallback takes over, so callers never see
// storage errors: lookups answer ErrSessionNotFound and Create always yields an
// ID.
//
//	┌────────┐  session ID  ┌───────────────┐
//	│ Client │ ───────────► │ Authenticator │ (cookie, bearer, X-Session-ID)
//	└────────┘              └───────────────┘
//	                                │
//	                                ▼
//	┌─────────────────────────────────┐      ┌────────┐
//	│            Manager              │ ◄─── │ Reaper │ hourly Sweep
//	└─────────────────────────────────┘      └────────┘
//	       │ primary            │ on failure
//	       ▼                    ▼
//	┌──────────────┐     ┌─────────────┐
//	│ pg/redis/... │     │ MemoryStore │
//	└──────────────┘     └─────────────┘
//
// A session is dead once it has been idle for longer than the configured
// timeout (seven days by default). Every successful lookup checks this, deletes
// dead records on the spot and otherwise moves LastActivity forward. The Reaper
// removes dead records nobody asked for.
//
// # Usage
//
//	manager := session.NewManager(
//	    session.WithStore(session.NewPostgresStore(pool)),
//	    session.WithFallback(session.NewMemoryStore()),
//	    session.WithLogger(log),
//	)
//	go session.NewReaper(manager).Run(ctx)
//
//	auth := session.NewAuthenticator(manager, session.DefaultTransport(cookieMgr, cfg))
//	r.Use(auth.Middleware)
//
//	func me(w http.ResponseWriter, r *http.Request) {
//	    rec, ok := session.FromContext(r.Context())
//	    ...
//	}
//
// # Error Handling
//
//   - ErrSessionNotFound    – no live session for the key
//   - ErrDuplicateAuthToken – auth token already bound to a session
//   - ErrTokenGeneration    – the random source failed
package session
