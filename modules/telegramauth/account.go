package telegramauth

import (
	"github.com/dmitrymomot/tgauth/handler"
	"github.com/dmitrymomot/tgauth/pkg/logger"
	"github.com/dmitrymomot/tgauth/pkg/session"
	"github.com/dmitrymomot/tgauth/pkg/widget"
)

// MeResponse describes the authenticated user
type MeResponse struct {
	User      widget.User `json:"user"`
	SessionID string      `json:"session_id"`
}

func (s *Service) me(ctx handler.Context, _ struct{}) handler.Response {
	rec, ok := session.FromContext(ctx)
	if !ok {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	return handler.JSON(MeResponse{
		User:      widget.UserFromProfile(rec.Profile),
		SessionID: rec.SessionID,
	})
}

// logout is idempotent: it clears the token even without a session
func (s *Service) logout(ctx handler.Context, _ struct{}) handler.Response {
	if rec, ok := session.FromContext(ctx); ok {
		s.sessions.Delete(ctx, rec.SessionID)
		s.log.InfoContext(ctx, "telegram logout",
			logger.Event("logout"),
			logger.TelegramID(rec.TelegramID),
			logger.SessionID(rec.SessionID),
		)
	}
	if err := s.transport.ClearToken(ctx.ResponseWriter()); err != nil {
		return handler.JSONError(err)
	}
	return handler.NoContent()
}

func (s *Service) loginPage(ctx handler.Context, _ struct{}) handler.Response {
	if _, ok := session.FromContext(ctx); ok && s.widgetCfg.SuccessRedirectURL != "" {
		return handler.Redirect(s.widgetCfg.SuccessRedirectURL)
	}
	return handler.Templ(s.views.LoginPage(widget.LoginPageParams{
		Title: "Sign in with Telegram",
		Props: s.Props(),
	}))
}
