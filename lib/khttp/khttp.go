// Package khttp contains small helpers shared by http handlers.
package khttp

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// FuncHandler is the signature of http handler functions.
type FuncHandler func(w http.ResponseWriter, r *http.Request)

// RequestURL rebuilds the absolute URL the client used to reach the server.
//
// The scheme is derived from TLS state or from the X-Forwarded-Proto header.
func RequestURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		u.Scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return &u
}

// JoinURLQuery appends an already encoded query fragment to query.
func JoinURLQuery(query, add string) string {
	if query == "" {
		return add
	}
	if add == "" {
		return query
	}
	return query + "&" + add
}

// ClientOrigin returns a string describing where a request came from, for logging.
//
// It includes the remote address and, when present, the value the proxies
// claim is the real client.
func ClientOrigin(r *http.Request) string {
	remote := RemoteIP(r)
	if host, _, err := splitHostPort(r.RemoteAddr); err == nil && host != remote {
		return fmt.Sprintf("%s (via %s)", remote, host)
	}
	return remote
}
