// Package ratelimiter implements token bucket rate limiting with an in-memory
// store, a Redis store shared across replicas, and HTTP middleware.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     1,
//		RefillInterval: 6 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP("handoff"))).
//		Post("/handoff/confirm", confirm)
//
// Denied requests do not drain the bucket. Responses carry X-RateLimit-Limit,
// X-RateLimit-Remaining, X-RateLimit-Reset and, when denied, Retry-After.
package ratelimiter
