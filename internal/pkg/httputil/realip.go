package httputil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the caller's address. A CDN-supplied CF-Connecting-IP
// wins, then the first X-Forwarded-For entry, then the connection address
// without its port.
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// IsLoopback reports whether ip is a loopback address. Unparseable input
// is not loopback.
func IsLoopback(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
