// Package clientip resolves the client IP address of a request and carries
// it in the request context for rate limiting and logging.
//
// By default only the TCP peer address is used. With TrustProxyHeaders the
// first valid address from CF-Connecting-IP, X-Forwarded-For or X-Real-IP
// wins, falling back to RemoteAddr.
//
//	r.Use(clientip.Middleware(clientip.Config{TrustProxyHeaders: true}))
//
//	ip := clientip.FromContext(r.Context())
package clientip
