// Package logger builds slog loggers with functional options and injects
// attributes taken from the record context.
//
// New picks a text or JSON handler, applies static attributes, and wraps the
// result in a handler that runs the registered ContextExtractor callbacks on
// every record, skipping keys the call site already logged. Config reads LOG_LEVEL and LOG_FORMAT so the
// process environment can override the per-environment defaults:
//
//	opts, err := cfg.Log.Options()
//	if err != nil {
//	    return err
//	}
//	log := logger.New(append([]logger.Option{
//	    logger.WithEnvironment(cfg.Env, "tgauth"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	}, opts...)...)
//
// Attribute helpers such as Error and SessionID live in attr.go.
package logger
