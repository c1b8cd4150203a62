// Command tgauth serves Telegram login endpoints backed by a session store.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/tgauth/handler"
	"github.com/dmitrymomot/tgauth/modules/telegramauth"
	"github.com/dmitrymomot/tgauth/pkg/clientip"
	"github.com/dmitrymomot/tgauth/pkg/config"
	"github.com/dmitrymomot/tgauth/pkg/cookie"
	"github.com/dmitrymomot/tgauth/pkg/environment"
	"github.com/dmitrymomot/tgauth/pkg/httpserver"
	"github.com/dmitrymomot/tgauth/pkg/logger"
	"github.com/dmitrymomot/tgauth/pkg/ratelimiter"
	"github.com/dmitrymomot/tgauth/pkg/requestid"
	"github.com/dmitrymomot/tgauth/pkg/session"
	"github.com/dmitrymomot/tgauth/pkg/telegram"
	"github.com/dmitrymomot/tgauth/pkg/widget"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"tgauth"`
	MountPath   string `env:"TELEGRAM_AUTH_PATH" envDefault:"/api/auth/telegram"`

	Log       logger.Config
	HTTP      httpserver.Config
	ClientIP  clientip.Config
	Session   session.Config
	Cookie    cookie.Config
	Telegram  telegram.Config
	Widget    widget.Config
	Handoff   telegramauth.Config
	RateLimit ratelimiter.Config
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	env := environment.Parse(cfg.Env)

	logOpts, err := cfg.Log.Options()
	if err != nil {
		return err
	}
	log := logger.New(append([]logger.Option{
		logger.WithEnvironment(env.String(), cfg.ServiceName),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
		),
	}, logOpts...)...)
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	backend, err := openBackend(ctx, cfg.Session, log)
	if err != nil {
		return err
	}
	defer backend.close()

	sessions := session.NewFromConfig(cfg.Session,
		session.WithStore(backend.sessions),
		session.WithLogger(log),
	)

	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	if cfg.Session.CleanupInterval > 0 {
		reaper := session.NewReaper(sessions,
			session.WithInterval(cfg.Session.CleanupInterval),
			session.WithReaperLogger(log),
		)
		go reaper.Run(reaperCtx)
	}

	if env.IsProduction() {
		cfg.Cookie.Secure = true
		cfg.Session.SecureCookies = true
	}
	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return fmt.Errorf("cookie manager: %w", err)
	}
	transport := session.DefaultTransport(cookies, cfg.Session)
	authn := session.NewAuthenticator(sessions, transport)

	limiter, closeLimiter, err := newLimiter(backend, cfg.RateLimit)
	if err != nil {
		return err
	}
	defer closeLimiter()

	auth := telegramauth.NewService(sessions, transport, cookies, cfg.Telegram,
		telegramauth.WithConfig(cfg.Handoff),
		telegramauth.WithWidgetConfig(cfg.Widget),
		telegramauth.WithLimiter(limiter),
		telegramauth.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware(cfg.ClientIP),
		environment.Middleware(env),
		middleware.Recoverer,
		authn.Middleware,
	)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", backend.readiness(log))
	r.Mount(cfg.MountPath, auth.Handle())
	r.Get("/", handler.Wrap(home(cfg.MountPath),
		handler.WithErrorHandler[struct{}](handler.NewErrorHandler(log, handler.ErrorHandlerConfig{})),
	))

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(*slog.Logger) { stopReaper() }),
	)
	return srv.Run(ctx, r)
}

// home shows the signed-in profile or sends the visitor to the login page.
func home(mountPath string) handler.HandlerFunc[struct{}] {
	return func(ctx handler.Context, _ struct{}) handler.Response {
		rec, ok := session.FromContext(ctx)
		if !ok {
			return handler.Redirect(mountPath + "/login")
		}
		return handler.JSON(telegramauth.MeResponse{
			User:      widget.UserFromProfile(rec.Profile),
			SessionID: rec.SessionID,
		})
	}
}

func newLimiter(b *backend, cfg ratelimiter.Config) (ratelimiter.RateLimiter, func(), error) {
	var (
		store ratelimiter.Store
		stop  = func() {}
	)
	if b.redis != nil {
		store = ratelimiter.NewRedisStore(b.redis, ratelimiter.WithKeyPrefix("tgauth:ratelimit:"))
	} else {
		mem := ratelimiter.NewMemoryStore()
		store, stop = mem, mem.Close
	}

	bucket, err := ratelimiter.NewBucket(store, cfg)
	if err != nil {
		stop()
		return nil, nil, errors.Join(errors.New("rate limiter"), err)
	}
	return bucket, stop, nil
}
