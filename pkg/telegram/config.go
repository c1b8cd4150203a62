package telegram

import (
	"strconv"
	"strings"
	"time"
)

// PlaceholderBotUsername is the value shipped in sample env files; it counts as not configured.
const PlaceholderBotUsername = "your_bot_username"

// Config holds the Telegram bot settings
type Config struct {
	// BotUsername is the bot the login widget authenticates against, without "@"
	BotUsername string `env:"TELEGRAM_BOT_USERNAME"`

	// BotToken is the Bot API token; it keys the login payload signature
	BotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// BotSecret authenticates the bot backend when it confirms a handoff
	BotSecret string `env:"TELEGRAM_BOT_SECRET"`

	// AuthMaxAge rejects widget payloads signed longer ago than this (0 disables the check)
	AuthMaxAge time.Duration `env:"TELEGRAM_AUTH_MAX_AGE" envDefault:"24h"`
}

// Enabled reports whether a real bot username is configured
func (c Config) Enabled() bool {
	name := c.Username()
	return name != "" && name != PlaceholderBotUsername
}

// Username returns the bot username without a leading "@"
func (c Config) Username() string {
	return strings.TrimPrefix(strings.TrimSpace(c.BotUsername), "@")
}

// BotID returns the numeric bot ID encoded in the token prefix ("123456:ABC..."), or 0
func (c Config) BotID() int64 {
	prefix, _, ok := strings.Cut(c.BotToken, ":")
	if !ok {
		return 0
	}
	id, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
