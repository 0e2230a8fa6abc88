package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address used as rate-limit key. Proxy headers are only
// honoured when trustProxy is set, otherwise any client could pick its own key.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		xForwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
		if xForwardedFor != "" {
			parts := strings.Split(xForwardedFor, ",")
			if first := strings.TrimSpace(parts[0]); first != "" {
				return first
			}
		}

		xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
		if xRealIP != "" {
			return xRealIP
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		if addr := strings.TrimSpace(r.RemoteAddr); addr != "" {
			return addr
		}
		return "unknown"
	}

	return host
}
