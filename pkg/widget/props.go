package widget

import (
	"encoding/json"

	"github.com/dmitrymomot/tgauth/pkg/telegram"
)

// Props configures the login widget and the authentication modal
type Props struct {
	BotUsername string
	OAuthURL    string
	Enabled     bool
	Config      Config
}

// NewProps builds widget props from the bot and widget configuration
func NewProps(tg telegram.Config, cfg Config) Props {
	return Props{
		BotUsername: tg.Username(),
		OAuthURL:    telegram.OAuthURL(tg),
		Enabled:     tg.Enabled(),
		Config:      cfg,
	}
}

type policyJSON struct {
	Interval    int64 `json:"interval"`
	MaxAttempts int   `json:"maxAttempts"`
}

func toPolicyJSON(p ReadyPolicy) policyJSON {
	return policyJSON{Interval: p.Interval.Milliseconds(), MaxAttempts: p.MaxAttempts}
}

// clientConfig is the JSON handed to the browser bootstrap script
type clientConfig struct {
	Enabled         bool       `json:"enabled"`
	Modal           bool       `json:"modal"`
	Bot             string     `json:"bot,omitempty"`
	Size            string     `json:"size"`
	UserPic         bool       `json:"userpic"`
	CallbackPath    string     `json:"callbackPath"`
	DisabledMessage string     `json:"disabledMessage"`
	ScriptURL       string     `json:"scriptUrl"`
	OAuthURL        string     `json:"oauthUrl,omitempty"`
	Script          policyJSON `json:"script"`
	Widget          policyJSON `json:"widget"`
}

func (p Props) clientConfig(modal bool) clientConfig {
	cfg := clientConfig{
		Enabled:         p.Enabled,
		Modal:           modal,
		Size:            p.Config.Size,
		UserPic:         p.Config.ShowUserPic,
		CallbackPath:    p.Config.CallbackPath,
		DisabledMessage: p.Config.DisabledMessage,
		ScriptURL:       telegram.WidgetScriptURL,
		Script:          toPolicyJSON(p.Config.ScriptPolicy()),
		Widget:          toPolicyJSON(p.Config.WidgetPolicy()),
	}
	if cfg.Size == "" {
		cfg.Size = "large"
	}
	if cfg.CallbackPath == "" {
		cfg.CallbackPath = "/api/auth/telegram/callback"
	}
	if cfg.DisabledMessage == "" {
		cfg.DisabledMessage = "Telegram authentication is not configured. Please contact the administrator."
	}
	if p.Enabled {
		cfg.Bot = p.BotUsername
		cfg.OAuthURL = p.OAuthURL
	}
	return cfg
}

// json.Marshal escapes <, > and & so the output is safe inside attributes and script tags
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic("widget: " + err.Error())
	}
	return string(b)
}
