package telegram

import (
	"net/url"
	"strconv"
)

const (
	// WidgetScriptURL is the login widget loader
	WidgetScriptURL = "https://telegram.org/js/telegram-widget.js?22"

	oauthURL = "https://oauth.telegram.org/auth"
)

// DeepLink returns a t.me link that starts the bot with payload.
// Telegram limits start payloads to 64 chars of [A-Za-z0-9_-].
func DeepLink(botUsername, payload string) string {
	u := url.URL{
		Scheme: "https",
		Host:   "t.me",
		Path:   "/" + botUsername,
	}
	if payload != "" {
		u.RawQuery = "start=" + url.QueryEscape(payload)
	}
	return u.String()
}

// OAuthURL returns the manual login page used when the widget does not render,
// without the origin and return_to parameters the browser appends.
// The numeric bot ID is preferred; the username is sent when the ID is unknown.
func OAuthURL(cfg Config) string {
	botID := cfg.Username()
	if id := cfg.BotID(); id != 0 {
		botID = strconv.FormatInt(id, 10)
	}

	q := url.Values{}
	q.Set("bot_id", botID)
	q.Set("request_access", "write")
	return oauthURL + "?" + q.Encode()
}
