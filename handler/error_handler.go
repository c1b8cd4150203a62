package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/tgauth/pkg/logger"
	"github.com/dmitrymomot/tgauth/pkg/requestid"
)

// ErrorPageParams contains data for rendering error pages
type ErrorPageParams struct {
	Error      string
	StatusCode int
	RequestID  string
}

// ErrorHandlerConfig configures the default error handler
type ErrorHandlerConfig struct {
	// ErrorPage renders a full error page for browser requests; plain text when nil
	ErrorPage func(ErrorPageParams) templ.Component

	// ToastTarget receives error fragments for datastar requests (default: "#toast-container")
	ToastTarget string

	// ToastMode specifies how fragments are merged (default: PatchPrepend)
	ToastMode datastar.ElementPatchMode
}

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Key        string
	Message    string
	LogLevel   slog.Level
}

// ClassifyError maps an error onto a status code, key and log level.
func ClassifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Key:        ErrInternalServer.Key,
		Message:    "An error occurred processing your request",
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		info.StatusCode = httpErr.Code
		info.Key = httpErr.Key
		info.Message = http.StatusText(httpErr.Code)
	}

	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		info.StatusCode = http.StatusUnprocessableEntity
		info.Key = "validation_error"
		info.Message = validationErr.Error()
	}

	info.LogLevel = slog.LevelError
	if info.StatusCode < http.StatusInternalServerError {
		info.LogLevel = slog.LevelWarn
	}
	return info
}

// NewErrorHandler creates the error handler shared by all modules.
// JSON clients get the JSON envelope, datastar requests an SSE fragment,
// everything else the error page.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.ToastTarget == "" {
		cfg.ToastTarget = "#toast-container"
	}
	if cfg.ToastMode == "" {
		cfg.ToastMode = PatchPrepend
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		w := ctx.ResponseWriter()
		reqID := requestid.FromContext(r.Context())
		info := ClassifyError(err)

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.RequestID(reqID),
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		var resp Response
		switch {
		case WantsJSON(r):
			resp = JSONError(err)
		case cfg.ErrorPage != nil && IsDataStar(r):
			resp = Templ(cfg.ErrorPage(ErrorPageParams{Error: info.Message, StatusCode: info.StatusCode, RequestID: reqID}),
				WithTarget(cfg.ToastTarget), WithPatchMode(cfg.ToastMode))
		case cfg.ErrorPage != nil:
			resp = TemplWithStatus(info.StatusCode, cfg.ErrorPage(ErrorPageParams{Error: info.Message, StatusCode: info.StatusCode, RequestID: reqID}))
		default:
			http.Error(w, info.Message, info.StatusCode)
			return
		}

		if renderErr := resp.Render(w, r); renderErr != nil {
			log.Error("failed to render error response",
				logger.RequestID(reqID),
				logger.Error(renderErr),
			)
		}
	}
}
