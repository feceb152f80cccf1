package util

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// GetClientIPAddress resolves the caller's address for rate limiting and
// request logs: the first X-Forwarded-For hop, then X-Real-IP, then the peer.
func GetClientIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IsValidURL reports whether input is an absolute http(s) URL naming a host,
// the only kind of target the checker fetches.
func IsValidURL(input string) bool {
	if input == "" || strings.ContainsAny(input, " \t\r\n") {
		return false
	}
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}
