package session

import "time"

// Supported primary store backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Config holds session configuration
type Config struct {
	// Backend selects the primary store: postgres, redis, mongo or memory
	Backend string `env:"SESSION_BACKEND" envDefault:"postgres"`

	// Timeout is the idle period after which a session is dead (default: 7 days)
	Timeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"168h"`

	// CleanupInterval for the reaper (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`

	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sessionId"`
	HeaderName string `env:"SESSION_HEADER_NAME" envDefault:"X-Session-ID"`

	// SecureCookies enables the Secure flag on session cookies (recommended for production)
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	RedisKeyPrefix  string `env:"SESSION_REDIS_PREFIX" envDefault:"tgsession:"`
	MongoCollection string `env:"SESSION_MONGO_COLLECTION" envDefault:"telegram_sessions"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		Backend:         BackendPostgres,
		Timeout:         7 * 24 * time.Hour,
		CleanupInterval: time.Hour,
		CookieName:      "sessionId",
		HeaderName:      "X-Session-ID",
		RedisKeyPrefix:  "tgsession:",
		MongoCollection: "telegram_sessions",
	}
}

// NewFromConfig creates a new Manager from the provided Config.
// The primary store is passed via options; without one the Manager runs on memory only.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return NewManager(configOpts...)
}
