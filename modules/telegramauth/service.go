package telegramauth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tgauth/handler"
	"github.com/dmitrymomot/tgauth/pkg/binder"
	"github.com/dmitrymomot/tgauth/pkg/cookie"
	"github.com/dmitrymomot/tgauth/pkg/logger"
	"github.com/dmitrymomot/tgauth/pkg/ratelimiter"
	"github.com/dmitrymomot/tgauth/pkg/session"
	"github.com/dmitrymomot/tgauth/pkg/telegram"
	"github.com/dmitrymomot/tgauth/pkg/widget"
)

// Service serves the Telegram login endpoints
type Service struct {
	cfg       Config
	bot       telegram.Config
	widgetCfg widget.Config
	verifier  *telegram.Verifier
	sessions  *session.Manager
	transport session.Transport
	cookies   *cookie.Manager
	limiter   ratelimiter.RateLimiter
	views     *Views
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithConfig sets handoff and cookie settings; zero fields keep their defaults
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithWidgetConfig sets the widget presentation and the post-login redirect
func WithWidgetConfig(cfg widget.Config) Option {
	return func(s *Service) { s.widgetCfg = cfg }
}

// WithViews replaces the login and callback pages. Nil fields keep the built-in page.
func WithViews(v *Views) Option {
	return func(s *Service) { s.views = v }
}

// WithLimiter rate limits the handoff endpoints per client IP
func WithLimiter(l ratelimiter.RateLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithLogger sets the logger; nil is ignored
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now for login verification
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the login endpoints. The transport writes the session ID
// after a successful login; cookies holds the handoff token between issue and claim.
func NewService(sessions *session.Manager, transport session.Transport, cookies *cookie.Manager, bot telegram.Config, opts ...Option) *Service {
	s := &Service{
		cfg:       DefaultConfig(),
		bot:       bot,
		sessions:  sessions,
		transport: transport,
		cookies:   cookies,
		log:       slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cfg = s.cfg.withDefaults()
	s.views = s.views.withDefaults()
	s.log = s.log.With(logger.Component("telegramauth"))

	if bot.BotToken != "" {
		// NewVerifier only fails on an empty token
		s.verifier, _ = telegram.NewVerifier(bot.BotToken,
			telegram.WithMaxAge(bot.AuthMaxAge),
			telegram.WithClock(func() time.Time { return s.now() }),
		)
	}
	if !bot.Enabled() {
		s.log.Warn("telegram bot is not configured, login is disabled")
	} else if !cookies.CanSign() {
		s.log.Warn("no cookie secrets configured, bot handoff is disabled")
	}

	return s
}

// Props returns the widget props for embedding the login button elsewhere
func (s *Service) Props() widget.Props {
	return widget.NewProps(s.bot, s.widgetCfg)
}

// Handle returns the router, mounted at /api/auth/telegram
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/callback", handler.Wrap(s.callback))
	r.Get("/login", handler.Wrap(s.loginPage))
	r.Get("/me", handler.Wrap(s.me, handler.WithErrorHandler[struct{}](s.jsonError)))
	r.Post("/logout", handler.Wrap(s.logout, handler.WithErrorHandler[struct{}](s.jsonError)))

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(ratelimiter.Middleware(s.limiter, ratelimiter.ByClientIP("handoff"),
				ratelimiter.WithLimitedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_ = handler.JSONError(handler.ErrTooManyRequests).Render(w, r)
				})),
			))
		}

		r.Post("/handoff", handler.Wrap(s.issueHandoff,
			handler.WithErrorHandler[struct{}](s.jsonError),
		))
		r.Post("/handoff/confirm", handler.Wrap(s.confirmHandoff,
			handler.WithBinders[ConfirmRequest](binder.JSON()),
			handler.WithErrorHandler[ConfirmRequest](s.jsonError),
		))
		r.Get("/handoff/{token}", handler.Wrap(s.claimHandoff,
			handler.WithBinders[ClaimRequest](binder.Path(chi.URLParam), binder.Query()),
			handler.WithErrorHandler[ClaimRequest](s.jsonError),
		))
	})

	return r
}

// jsonError answers API endpoints with the JSON envelope
func (s *Service) jsonError(ctx handler.Context, err error) {
	info := handler.ClassifyError(err)
	s.log.LogAttrs(ctx, info.LogLevel, "request failed",
		logger.Error(err),
		slog.Int("status_code", info.StatusCode),
		slog.String("path", ctx.Request().URL.Path),
	)
	if renderErr := handler.JSONError(err).Render(ctx.ResponseWriter(), ctx.Request()); renderErr != nil {
		s.log.ErrorContext(ctx, "failed to render error", logger.Error(renderErr))
	}
}
