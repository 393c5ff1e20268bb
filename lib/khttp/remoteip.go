package khttp

import (
	"net"
	"net/http"
	"strings"
)

// RemoteIP returns the remote client IP address from a request.
//
// X-Forwarded-For takes precedence over X-Real-IP, which takes precedence
// over the address of the connection.
func RemoteIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// The first entry is the original client.
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := splitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func splitHostPort(addr string) (string, string, error) {
	return net.SplitHostPort(addr)
}
