package clientip

import (
	"net"
	"net/http"
	"strings"
)

// proxyHeaders are consulted in order when proxy headers are trusted
var proxyHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Config controls whether forwarded headers are trusted.
// Enable it only behind a proxy that overwrites these headers.
type Config struct {
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

// GetIP returns the client IP using proxy headers first, then RemoteAddr.
func GetIP(r *http.Request) string {
	for _, header := range proxyHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For lists the original client first
		for ip := range strings.SplitSeq(value, ",") {
			if parsed := parseIP(ip); parsed != "" {
				return parsed
			}
		}
	}
	return RemoteIP(r)
}

// RemoteIP returns the TCP peer address, ignoring headers.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
