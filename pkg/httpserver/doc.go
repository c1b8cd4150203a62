// Package httpserver runs an http.Handler with configurable timeouts and
// graceful shutdown on context cancellation or SIGINT/SIGTERM.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	r.Get("/healthz", httpserver.LivenessHandler())
//	r.Get("/readyz", httpserver.ReadinessHandler(log, 2*time.Second,
//	    httpserver.Check{Name: "sessions", Fn: store.Ping},
//	))
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Run wraps listener failures with ErrStart and Shutdown wraps drain failures
// with ErrShutdown.
package httpserver
