package telegramauth

import (
	"net/http"

	"github.com/dmitrymomot/tgauth/handler"
)

var (
	ErrTelegramDisabled = handler.NewHTTPError(http.StatusServiceUnavailable, "telegram_disabled")
	ErrInvalidLogin     = handler.NewHTTPError(http.StatusUnauthorized, "invalid_login")
	ErrLoginExpired     = handler.NewHTTPError(http.StatusUnauthorized, "login_expired")
	ErrInvalidBotSecret = handler.NewHTTPError(http.StatusForbidden, "invalid_bot_secret")
	ErrHandoffPending   = handler.NewHTTPError(http.StatusNotFound, "handoff_pending")
	ErrHandoffMismatch  = handler.NewHTTPError(http.StatusForbidden, "handoff_mismatch")
	ErrHandoffUsed      = handler.NewHTTPError(http.StatusConflict, "handoff_already_confirmed")
	ErrHandoffExpired   = handler.NewHTTPError(http.StatusGone, "handoff_expired")

	ErrHandoffUnavailable = handler.NewHTTPError(http.StatusServiceUnavailable, "handoff_unavailable")
)
