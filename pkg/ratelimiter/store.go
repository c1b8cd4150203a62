package ratelimiter

import (
	"context"
	"time"
)

// Store keeps bucket state. ConsumeTokens with tokens == 0 only refills and reports.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}
