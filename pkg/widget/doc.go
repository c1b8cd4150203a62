// Package widget renders the Telegram login button, the blocking
// authentication modal and the popup callback page.
//
// Components are plain templ.Component values, so they compose with any
// templ layout and with handler.Templ:
//
//	props := widget.NewProps(tgCfg, widgetCfg)
//	return handler.Templ(widget.AuthModal(props))
//
// The embedded bootstrap script waits for the Telegram loader and the
// rendered button using bounded ReadyPolicy polls and switches to a manual
// fallback button when either poll runs out. It only accepts postMessage
// events whose origin equals the page origin.
package widget
