package telegram

import "errors"

var (
	ErrNotConfigured  = errors.New("telegram.not_configured")
	ErrMissingHash    = errors.New("telegram.missing_hash")
	ErrInvalidHash    = errors.New("telegram.invalid_hash")
	ErrInvalidPayload = errors.New("telegram.invalid_payload")
	ErrAuthExpired    = errors.New("telegram.auth_expired")
)
