package widget

import "time"

// ReadyPolicy bounds a client-side readiness poll: the check runs every
// Interval and gives up after MaxAttempts, switching to the fallback state.
type ReadyPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// Timeout is the longest the poll can run
func (p ReadyPolicy) Timeout() time.Duration {
	return p.Interval * time.Duration(p.MaxAttempts)
}

func (p ReadyPolicy) normalize(def ReadyPolicy) ReadyPolicy {
	if p.Interval <= 0 {
		p.Interval = def.Interval
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	return p
}

var (
	// DefaultScriptPolicy waits up to 5s for the loader script
	DefaultScriptPolicy = ReadyPolicy{Interval: 100 * time.Millisecond, MaxAttempts: 50}

	// DefaultWidgetPolicy waits up to 3s for the login button to render
	DefaultWidgetPolicy = ReadyPolicy{Interval: 200 * time.Millisecond, MaxAttempts: 15}
)

// Config holds widget presentation settings
type Config struct {
	Size               string        `env:"TELEGRAM_WIDGET_SIZE" envDefault:"large"`
	ScriptInterval     time.Duration `env:"WIDGET_SCRIPT_INTERVAL" envDefault:"100ms"`
	ScriptMaxAttempts  int           `env:"WIDGET_SCRIPT_MAX_ATTEMPTS" envDefault:"50"`
	ReadyInterval      time.Duration `env:"WIDGET_READY_INTERVAL" envDefault:"200ms"`
	ReadyMaxAttempts   int           `env:"WIDGET_READY_MAX_ATTEMPTS" envDefault:"15"`
	ShowUserPic        bool          `env:"TELEGRAM_WIDGET_USERPIC" envDefault:"true"`
	DisabledMessage    string        `env:"TELEGRAM_DISABLED_MESSAGE" envDefault:"Telegram authentication is not configured. Please contact the administrator."`
	CallbackPath       string        `env:"TELEGRAM_CALLBACK_PATH" envDefault:"/api/auth/telegram/callback"`
	SuccessRedirectURL string        `env:"TELEGRAM_SUCCESS_REDIRECT" envDefault:"/"`
}

// ScriptPolicy returns the loader poll policy
func (c Config) ScriptPolicy() ReadyPolicy {
	return ReadyPolicy{Interval: c.ScriptInterval, MaxAttempts: c.ScriptMaxAttempts}.normalize(DefaultScriptPolicy)
}

// WidgetPolicy returns the button render poll policy
func (c Config) WidgetPolicy() ReadyPolicy {
	return ReadyPolicy{Interval: c.ReadyInterval, MaxAttempts: c.ReadyMaxAttempts}.normalize(DefaultWidgetPolicy)
}
