// Package cookie wraps net/http cookies with shared defaults and optional
// HMAC-SHA256 signing.
//
// Plain cookies (Set, Get, Delete) carry values the client may read, such as
// the session ID. Signed cookies (SetSigned, GetSigned) detect tampering and are
// used for short-lived state bound to one browser, such as a pending bot
// handoff. Several secrets may be configured for key rotation: the first signs,
// all of them verify.
//
//	man, err := cookie.New([]string{os.Getenv("COOKIE_SECRETS")})
//	if err != nil { log.Fatal(err) }
//
//	_ = man.SetSigned(w, "tg_handoff", token, cookie.WithTTL(10*time.Minute))
//	token, err := man.GetSigned(r, "tg_handoff")
//
// Config is populated from COOKIE_* environment variables (COOKIE_SECRETS is a
// comma separated list, COOKIE_SAME_SITE one of lax, strict or none) and
// passed to NewFromConfig.
package cookie
