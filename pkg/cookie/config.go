package cookie

import (
	"fmt"
	"net/http"
	"strings"
)

// Config is loaded from COOKIE_* variables. Path and HttpOnly are fixed to
// "/" and true; expiry is set per cookie.
type Config struct {
	// Secrets sign the handoff cookie, each at least 32 chars. The first signs, all verify.
	Secrets  []string `env:"COOKIE_SECRETS" envSeparator:","`
	Domain   string   `env:"COOKIE_DOMAIN"`
	Secure   bool     `env:"COOKIE_SECURE" envDefault:"false"`
	SameSite string   `env:"COOKIE_SAME_SITE" envDefault:"lax"` // lax, strict or none
}

// DefaultConfig returns the settings used for local development
func DefaultConfig() Config {
	return Config{SameSite: "lax"}
}

// NewFromConfig creates a Manager from cfg; opts are applied after the config values.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	sameSite, err := parseSameSite(cfg.SameSite)
	if err != nil {
		return nil, err
	}

	secrets := make([]string, 0, len(cfg.Secrets))
	for _, s := range cfg.Secrets {
		secrets = append(secrets, strings.TrimSpace(s))
	}

	base := []Option{WithSecure(cfg.Secure), WithSameSite(sameSite)}
	if cfg.Domain != "" {
		base = append(base, WithDomain(cfg.Domain))
	}
	return New(secrets, append(base, opts...)...)
}

func parseSameSite(v string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSameSite, v)
}
