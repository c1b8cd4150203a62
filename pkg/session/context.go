package session

import "context"

type sessionContextKey struct{}

// WithRecord adds a session record to the context
func WithRecord(ctx context.Context, rec *Record) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, rec)
}

// FromContext retrieves a session record from the context
func FromContext(ctx context.Context) (*Record, bool) {
	rec, ok := ctx.Value(sessionContextKey{}).(*Record)
	return rec, ok && rec != nil
}

// MustFromContext retrieves a session record from the context or panics
func MustFromContext(ctx context.Context) *Record {
	rec, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return rec
}

// ProfileFromContext returns the Telegram profile of the session in context
func ProfileFromContext(ctx context.Context) (Profile, bool) {
	rec, ok := FromContext(ctx)
	if !ok {
		return Profile{}, false
	}
	return rec.Profile, true
}
