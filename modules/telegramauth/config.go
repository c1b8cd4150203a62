package telegramauth

import "time"

// Config holds the handoff flow settings
type Config struct {
	// HandoffTTL bounds how long an issued handoff token can be claimed
	HandoffTTL time.Duration `env:"HANDOFF_TTL" envDefault:"10m"`

	// HandoffMaxWait caps the long-poll of a claim request
	HandoffMaxWait time.Duration `env:"HANDOFF_MAX_WAIT" envDefault:"25s"`

	// HandoffPollInterval is the store lookup interval while a claim waits
	HandoffPollInterval time.Duration `env:"HANDOFF_POLL_INTERVAL" envDefault:"500ms"`

	// QRCodeSize is the side of the handoff QR code in pixels
	QRCodeSize int `env:"HANDOFF_QR_SIZE" envDefault:"256"`

	// HandoffCookie keeps the issued token in the browser that asked for it
	HandoffCookie string `env:"HANDOFF_COOKIE_NAME" envDefault:"tg_handoff"`
}

// DefaultConfig returns the defaults matching the env tags
func DefaultConfig() Config {
	return Config{
		HandoffTTL:          10 * time.Minute,
		HandoffMaxWait:      25 * time.Second,
		HandoffPollInterval: 500 * time.Millisecond,
		QRCodeSize:          256,
		HandoffCookie:       "tg_handoff",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.HandoffTTL <= 0 {
		c.HandoffTTL = def.HandoffTTL
	}
	if c.HandoffMaxWait < 0 {
		c.HandoffMaxWait = 0
	}
	if c.HandoffPollInterval <= 0 {
		c.HandoffPollInterval = def.HandoffPollInterval
	}
	if c.QRCodeSize <= 0 {
		c.QRCodeSize = def.QRCodeSize
	}
	if c.HandoffCookie == "" {
		c.HandoffCookie = def.HandoffCookie
	}
	return c
}
