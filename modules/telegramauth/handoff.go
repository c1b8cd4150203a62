package telegramauth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/tgauth/handler"
	"github.com/dmitrymomot/tgauth/pkg/cookie"
	"github.com/dmitrymomot/tgauth/pkg/logger"
	"github.com/dmitrymomot/tgauth/pkg/qrcode"
	"github.com/dmitrymomot/tgauth/pkg/sanitizer"
	"github.com/dmitrymomot/tgauth/pkg/session"
	"github.com/dmitrymomot/tgauth/pkg/telegram"
	"github.com/dmitrymomot/tgauth/pkg/widget"
)

// BotSecretHeader authenticates the bot backend on handoff confirmation
const BotSecretHeader = "X-Bot-Secret"

// start payloads are limited to 64 chars of [A-Za-z0-9_-]
var handoffTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{16,64}$`)

// HandoffResponse is returned when a handoff starts
type HandoffResponse struct {
	Token     string `json:"token"`
	DeepLink  string `json:"deep_link"`
	QRCode    string `json:"qr_code"`
	ExpiresIn int    `json:"expires_in"`
}

// ConfirmRequest is sent by the bot backend after the user pressed start
type ConfirmRequest struct {
	Token      string `json:"token"`
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Username   string `json:"username"`
	PhotoURL   string `json:"photo_url"`
}

func (r ConfirmRequest) validate() error {
	verr := handler.NewValidationError()
	if !handoffTokenPattern.MatchString(r.Token) {
		verr.Add("token", "must be 16-64 characters of A-Z, a-z, 0-9, _ or -")
	}
	if r.TelegramID <= 0 {
		verr.Add("telegram_id", "must be positive")
	}
	if sanitizer.Name(r.FirstName) == "" {
		verr.Add("first_name", "is required")
	}
	return verr.OrNil()
}

// ClaimRequest polls for the session confirmed by the bot
type ClaimRequest struct {
	Token string `path:"token"`
	Wait  int    `query:"wait"`
}

// ClaimResponse mirrors the callback page message
type ClaimResponse struct {
	Type      string      `json:"type"`
	User      widget.User `json:"user"`
	SessionID string      `json:"sessionId"`
}

func (s *Service) issueHandoff(ctx handler.Context, _ struct{}) handler.Response {
	if !s.bot.Enabled() {
		return handler.JSONError(ErrTelegramDisabled)
	}
	if !s.cookies.CanSign() {
		return handler.JSONError(ErrHandoffUnavailable)
	}

	token, err := generateHandoffToken()
	if err != nil {
		return handler.JSONError(err)
	}

	link := telegram.DeepLink(s.bot.Username(), token)
	qr, err := qrcode.DataURI(link, s.cfg.QRCodeSize)
	if err != nil {
		return handler.JSONError(err)
	}

	if err := s.setHandoffCookie(ctx.ResponseWriter(), token); err != nil {
		return handler.JSONError(err)
	}

	return handler.JSON(HandoffResponse{
		Token:     token,
		DeepLink:  link,
		QRCode:    qr,
		ExpiresIn: int(s.cfg.HandoffTTL.Seconds()),
	}, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Service) confirmHandoff(ctx handler.Context, req ConfirmRequest) handler.Response {
	if s.bot.BotSecret == "" {
		return handler.JSONError(ErrTelegramDisabled)
	}
	secret := ctx.Request().Header.Get(BotSecretHeader)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.bot.BotSecret)) != 1 {
		s.log.WarnContext(ctx, "handoff confirm with invalid bot secret")
		return handler.JSONError(ErrInvalidBotSecret)
	}
	if err := req.validate(); err != nil {
		return handler.JSONError(err)
	}

	profile := newProfile(req.TelegramID, req.FirstName, req.LastName, req.Username, req.PhotoURL)
	sid, err := s.sessions.Create(ctx, profile, req.Token)
	if err != nil {
		if errors.Is(err, session.ErrDuplicateAuthToken) {
			return handler.JSONError(ErrHandoffUsed)
		}
		s.log.ErrorContext(ctx, "failed to create handoff session", logger.Error(err), logger.TelegramID(req.TelegramID))
		return handler.JSONError(err)
	}

	s.log.InfoContext(ctx, "handoff confirmed",
		logger.Event("handoff_confirmed"),
		logger.TelegramID(req.TelegramID),
		logger.SessionID(sid),
	)
	return handler.JSON(map[string]bool{"confirmed": true}, handler.WithJSONStatus(http.StatusCreated))
}

// claimHandoff long-polls until the bot confirmed the token or the wait runs out.
// Only the browser holding the handoff cookie may claim.
func (s *Service) claimHandoff(ctx handler.Context, req ClaimRequest) handler.Response {
	if !handoffTokenPattern.MatchString(req.Token) {
		return handler.JSONError(handler.ErrNotFound)
	}
	issued, issuedAt, err := s.handoffCookie(ctx.Request())
	if err != nil || subtle.ConstantTimeCompare([]byte(issued), []byte(req.Token)) != 1 {
		return handler.JSONError(ErrHandoffMismatch)
	}
	if s.now().Sub(issuedAt) > s.cfg.HandoffTTL {
		s.cookies.Delete(ctx.ResponseWriter(), s.cfg.HandoffCookie)
		return handler.JSONError(ErrHandoffExpired)
	}

	wait := min(time.Duration(max(req.Wait, 0))*time.Second, s.cfg.HandoffMaxWait)
	sid, rec, err := s.awaitHandoff(ctx, req.Token, wait)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			return handler.JSONError(ErrHandoffPending)
		case errors.Is(err, session.ErrAuthTokenExpired):
			s.cookies.Delete(ctx.ResponseWriter(), s.cfg.HandoffCookie)
			return handler.JSONError(ErrHandoffExpired)
		}
		return handler.JSONError(err)
	}

	if err := s.transport.SetToken(ctx.ResponseWriter(), sid, s.sessions.Timeout()); err != nil {
		return handler.JSONError(err)
	}
	s.cookies.Delete(ctx.ResponseWriter(), s.cfg.HandoffCookie)

	s.log.InfoContext(ctx, "handoff claimed",
		logger.Event("handoff_claimed"),
		logger.TelegramID(rec.TelegramID),
		logger.SessionID(sid),
	)

	return handler.JSON(ClaimResponse{
		Type:      "telegram-auth-success",
		User:      widget.UserFromProfile(rec.Profile),
		SessionID: sid,
	})
}

// awaitHandoff redeems the confirmed token, polling until wait runs out.
// The session bound by the bot is exchanged for a fresh one, so a token is claimed at most once.
func (s *Service) awaitHandoff(ctx handler.Context, token string, wait time.Duration) (string, *session.Record, error) {
	sid, rec, err := s.sessions.Redeem(ctx, token, s.cfg.HandoffTTL)
	if !errors.Is(err, session.ErrSessionNotFound) || wait <= 0 {
		return sid, rec, err
	}

	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	ticker := time.NewTicker(s.cfg.HandoffPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		case <-deadline.C:
			return "", nil, session.ErrSessionNotFound
		case <-ticker.C:
			sid, rec, err := s.sessions.Redeem(ctx, token, s.cfg.HandoffTTL)
			if !errors.Is(err, session.ErrSessionNotFound) {
				return sid, rec, err
			}
		}
	}
}

// setHandoffCookie binds the token and its issue time to the browser.
func (s *Service) setHandoffCookie(w http.ResponseWriter, token string) error {
	value := token + "." + strconv.FormatInt(s.now().Unix(), 10)
	return s.cookies.SetSigned(w, s.cfg.HandoffCookie, value, cookie.WithTTL(s.cfg.HandoffTTL))
}

func (s *Service) handoffCookie(r *http.Request) (string, time.Time, error) {
	value, err := s.cookies.GetSigned(r, s.cfg.HandoffCookie)
	if err != nil {
		return "", time.Time{}, err
	}
	token, ts, ok := strings.Cut(value, ".")
	if !ok {
		return "", time.Time{}, cookie.ErrInvalidFormat
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", time.Time{}, cookie.ErrInvalidFormat
	}
	return token, time.Unix(unix, 0), nil
}

func generateHandoffToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(session.ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
