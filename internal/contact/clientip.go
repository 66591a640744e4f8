package contact

import (
	"net"
	"net/http"
	"strings"
)

// ClientID identifies the sender of r for rate limiting: the first
// X-Forwarded-For entry, then X-Real-IP, then the connection's remote host.
// The headers are trusted as-is, so this is best effort behind a proxy.
func ClientID(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
		return defaultClientID
	}
	if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
		return xrip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return defaultClientID
}
