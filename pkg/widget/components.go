package widget

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/tgauth/pkg/session"
)

// User is the profile shape delivered to the opener window
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// UserFromProfile converts a session profile
func UserFromProfile(p session.Profile) User {
	return User{
		ID:        p.TelegramID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Username:  p.Username,
		PhotoURL:  p.PhotoURL,
	}
}

// CallbackResult is what the callback page relays to the opener.
// Error set means the login failed and User/SessionID are ignored.
type CallbackResult struct {
	User      *User  `json:"user,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Error     string `json:"error,omitempty"`
	Redirect  string `json:"redirect,omitempty"`
}

// LoginPageParams configures the standalone login page
type LoginPageParams struct {
	Title string
	Props Props
}

// LoginWidget renders the inline Telegram login button.
// A disabled bot renders the fallback button with the configured message.
func LoginWidget(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return renderRoot(ctx, w, p, false)
	})
}

// AuthModal renders a blocking dialog that stays open until a session is established
func AuthModal(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="tg-auth-modal" role="dialog" aria-modal="true" aria-labelledby="tg-auth-title">`+
			`<div class="tg-auth-modal__backdrop"></div><div class="tg-auth-modal__panel">`+
			`<h2 id="tg-auth-title">Sign in with Telegram</h2>`+
			`<p>Authentication is required to continue.</p>`); err != nil {
			return err
		}
		if err := renderRoot(ctx, w, p, true); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></div>`)
		return err
	})
}

// CallbackPage renders the popup page served at the widget auth URL
func CallbackPage(res CallbackResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		status := "Signed in. You can close this window."
		if res.Error != "" {
			status = "Authentication failed: " + res.Error
		}
		nonce := nonceAttr(ctx)
		_, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<title>Telegram login</title></head><body>`+
			`<p>`+templ.EscapeString(status)+`</p>`+
			`<script type="application/json" id="tg-auth-result">`+mustJSON(res)+`</script>`+
			`<script`+nonce+`>`+callbackJS+`</script>`+
			`</body></html>`)
		return err
	})
}

// LoginPage renders a full HTML page containing the modal
func LoginPage(p LoginPageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := p.Title
		if title == "" {
			title = "Sign in"
		}
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(title)+`</title></head><body>`); err != nil {
			return err
		}
		if err := AuthModal(p.Props).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func renderRoot(ctx context.Context, w io.Writer, p Props, modal bool) error {
	cfg := p.clientConfig(modal)

	errorAttrs := ` hidden`
	errorText := ""
	fallbackAttrs := ` hidden`
	state := "waiting"
	if !cfg.Enabled {
		errorAttrs = ""
		errorText = cfg.DisabledMessage
		fallbackAttrs = ` disabled`
		state = "fallback"
	}

	_, err := io.WriteString(w, `<div class="tg-auth" data-tg-auth="`+templ.EscapeString(mustJSON(cfg))+`" data-state="`+state+`">`+
		`<div class="tg-auth__widget" data-tg-widget></div>`+
		`<button type="button" class="tg-auth__fallback" data-tg-fallback`+fallbackAttrs+`>Sign in with Telegram</button>`+
		`<p class="tg-auth__error" role="alert" data-tg-error`+errorAttrs+`>`+templ.EscapeString(errorText)+`</p>`+
		`</div>`+
		`<script`+nonceAttr(ctx)+`>`+bootstrapJS+`</script>`)
	return err
}

func nonceAttr(ctx context.Context) string {
	if nonce := templ.GetNonce(ctx); nonce != "" {
		return ` nonce="` + templ.EscapeString(nonce) + `"`
	}
	return ""
}
