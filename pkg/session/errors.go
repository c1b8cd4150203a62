package session

import "errors"

var (
	// ErrSessionNotFound indicates no live session matched the lookup
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrInvalidSession indicates a record is missing required fields
	ErrInvalidSession = errors.New("session.invalid")

	// ErrDuplicateAuthToken indicates the auth token is already bound to another session
	ErrDuplicateAuthToken = errors.New("session.duplicate_auth_token")

	// ErrAuthTokenExpired indicates the session bound to an auth token is too old to redeem
	ErrAuthTokenExpired = errors.New("session.auth_token_expired")

	// ErrTokenGeneration indicates session ID generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrStoreUnavailable wraps backend failures reported by durable stores
	ErrStoreUnavailable = errors.New("session.store_unavailable")
)
