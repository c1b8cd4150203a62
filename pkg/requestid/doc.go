// Package requestid tags every HTTP request with a correlation ID.
//
// Middleware accepts a client supplied X-Request-ID when it is at most 128
// characters of [a-zA-Z0-9_-], otherwise it generates a UUIDv7. The ID is
// echoed in the response, stored in the context, and surfaced in logs through
// LoggerExtractor and on error pages rendered by the handler package.
package requestid
