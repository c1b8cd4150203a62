// Package telegramauth serves the Telegram login endpoints under
// /api/auth/telegram.
//
//	GET  /callback          widget auth URL, verifies the payload and starts a session
//	GET  /login             page with the blocking login modal
//	GET  /me                current user (JSON), 401 without a session
//	POST /logout            ends the session, 204
//	POST /handoff           issues a one-time token with deep link and QR code
//	POST /handoff/confirm   bot backend confirms a token for a Telegram user
//	GET  /handoff/{token}   browser claims the confirmed session, long-polls with ?wait=seconds
//
// The session.Authenticator middleware must run before this router so /me,
// /logout and /login see the current session.
//
// Handoff lets users log in from the bot chat: the browser gets a token and
// a t.me deep link, the bot backend calls confirm with the token and the
// user's profile once /start arrives, and the browser claims the session.
// The token is bound to the issuing browser by a signed cookie, so handoff
// needs cookie secrets. A claim exchanges the confirmed session for a fresh
// one and works once, within HandoffTTL of both issue and confirmation.
package telegramauth
