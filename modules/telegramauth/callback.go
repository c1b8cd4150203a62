package telegramauth

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/tgauth/handler"
	"github.com/dmitrymomot/tgauth/pkg/logger"
	"github.com/dmitrymomot/tgauth/pkg/sanitizer"
	"github.com/dmitrymomot/tgauth/pkg/session"
	"github.com/dmitrymomot/tgauth/pkg/telegram"
	"github.com/dmitrymomot/tgauth/pkg/widget"
)

// callback is the widget auth URL. It always answers with the callback page,
// which relays success or failure to the opener window.
func (s *Service) callback(ctx handler.Context, _ struct{}) handler.Response {
	if s.verifier == nil || !s.bot.Enabled() {
		return s.callbackFailure(http.StatusServiceUnavailable, ErrTelegramDisabled)
	}

	data, err := s.verifier.Verify(ctx.Request().URL.Query())
	if err != nil {
		s.log.WarnContext(ctx, "telegram login rejected", logger.Error(err))
		if errors.Is(err, telegram.ErrAuthExpired) {
			return s.callbackFailure(http.StatusUnauthorized, ErrLoginExpired)
		}
		return s.callbackFailure(http.StatusUnauthorized, ErrInvalidLogin)
	}

	profile := profileFromLogin(data)
	sid, err := s.sessions.Create(ctx, profile, "")
	if err != nil {
		s.log.ErrorContext(ctx, "failed to create session", logger.Error(err), logger.TelegramID(profile.TelegramID))
		return s.callbackFailure(http.StatusInternalServerError, handler.ErrInternalServer)
	}

	if err := s.transport.SetToken(ctx.ResponseWriter(), sid, s.sessions.Timeout()); err != nil {
		s.log.ErrorContext(ctx, "failed to set session token", logger.Error(err))
		return s.callbackFailure(http.StatusInternalServerError, handler.ErrInternalServer)
	}

	s.log.InfoContext(ctx, "telegram login",
		logger.Event("login"),
		logger.TelegramID(profile.TelegramID),
		logger.SessionID(sid),
	)

	user := widget.UserFromProfile(profile)
	return handler.Templ(s.views.CallbackPage(widget.CallbackResult{
		User:      &user,
		SessionID: sid,
		Redirect:  s.widgetCfg.SuccessRedirectURL,
	}))
}

func (s *Service) callbackFailure(status int, err handler.HTTPError) handler.Response {
	return handler.TemplWithStatus(status, s.views.CallbackPage(widget.CallbackResult{Error: err.Key}))
}

func profileFromLogin(d telegram.LoginData) session.Profile {
	return newProfile(d.ID, d.FirstName, d.LastName, d.Username, d.PhotoURL)
}

// newProfile cleans fields coming from Telegram before they reach the store.
func newProfile(id int64, first, last, username, photo string) session.Profile {
	return session.Profile{
		TelegramID: id,
		FirstName:  sanitizer.Name(first),
		LastName:   sanitizer.Name(last),
		Username:   sanitizer.Username(username),
		PhotoURL:   sanitizer.PhotoURL(photo),
	}
}
