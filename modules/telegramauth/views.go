package telegramauth

import (
	"github.com/a-h/templ"

	"github.com/dmitrymomot/tgauth/pkg/widget"
)

// Views lets the application replace the built-in pages with its own layout
type Views struct {
	LoginPage    func(widget.LoginPageParams) templ.Component
	CallbackPage func(widget.CallbackResult) templ.Component
}

// DefaultViews renders the pages shipped with the widget package
func DefaultViews() *Views {
	return &Views{
		LoginPage:    widget.LoginPage,
		CallbackPage: widget.CallbackPage,
	}
}

func (v *Views) withDefaults() *Views {
	def := DefaultViews()
	if v == nil {
		return def
	}
	out := *v
	if out.LoginPage == nil {
		out.LoginPage = def.LoginPage
	}
	if out.CallbackPage == nil {
		out.CallbackPage = def.CallbackPage
	}
	return &out
}
