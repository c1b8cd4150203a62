// Package telegram verifies Telegram Login Widget payloads and builds the
// links used by the login flow: bot deep links, the manual OAuth fallback
// and the widget callback URL.
//
//	v, err := telegram.NewVerifier(cfg.BotToken, telegram.WithMaxAge(cfg.AuthMaxAge))
//	data, err := v.Verify(r.URL.Query())
//	if errors.Is(err, telegram.ErrInvalidHash) { ... }
//
// A bot username that is empty or equal to PlaceholderBotUsername disables
// the login widget; Config.Enabled reports it.
package telegram
