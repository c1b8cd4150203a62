package cookie

import (
	"net/http"
	"time"
)

// Options are the attributes written with a cookie
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Option overrides one attribute for a single Set call or for the Manager defaults
type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithTTL sets Max-Age in whole seconds. A ttl under one second leaves a browser-session cookie.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) { o.MaxAge = max(int(ttl/time.Second), 0) }
}

func WithSecure(secure bool) Option {
	return func(o *Options) { o.Secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) { o.HttpOnly = httpOnly }
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) { o.SameSite = sameSite }
}

// with returns a copy of o with opts applied
func (o Options) with(opts []Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// httpCookie builds the cookie. SameSite=None is always marked Secure.
func (o Options) httpCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure || o.SameSite == http.SameSiteNoneMode,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
}
