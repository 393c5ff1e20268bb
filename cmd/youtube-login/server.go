package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/dunice-shabanov/passport-youtube/lib/logger"
	"github.com/dunice-shabanov/passport-youtube/lib/oauth"
	"github.com/kataras/muxie"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// checker validates the credentials of requests to protected pages.
type checker interface {
	oauth.IAuthenticator
	Authenticate(w http.ResponseWriter, r *http.Request) (*oauth.CredentialsCookie, error)
}

type server struct {
	log          logger.Logger
	registry     *oauth.Registry
	checker      checker
	hostedDomain string
}

func (s *server) Handler() http.Handler {
	mux := muxie.NewMux()
	mux.HandleFunc("/", s.home)
	mux.HandleFunc("/auth/:provider/login", s.login)
	mux.HandleFunc("/auth/:provider/callback", s.callback)
	mux.HandleFunc("/profile", oauth.WithCredentialsOrError(s.checker, s.profile))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// authenticator returns the authenticator named in the path, or writes an error.
func (s *server) authenticator(w http.ResponseWriter) oauth.NamedAuthenticator {
	a, err := s.registry.Get(muxie.GetParam(w, "provider"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil
	}
	return a
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	a := s.authenticator(w)
	if a == nil {
		return
	}

	query := r.URL.Query()
	ao := oauth.AuthorizationOptions{
		AccessType:   query.Get("access_type"),
		Prompt:       query.Get("prompt"),
		LoginHint:    query.Get("login_hint"),
		HostedDomain: s.hostedDomain,
	}
	oauth.LoginHandler(a, oauth.WithTarget(localTarget(r, query.Get(oauth.TargetParameter))), oauth.WithAuthorizationOptions(ao))(w, r)
}

func (s *server) callback(w http.ResponseWriter, r *http.Request) {
	a := s.authenticator(w)
	if a == nil {
		return
	}
	oauth.AuthHandler(a)(w, r)
}

func (s *server) home(w http.ResponseWriter, r *http.Request) {
	creds, err := s.checker.Authenticate(w, r)
	if err != nil {
		s.log.Warnf("could not authenticate %s - %s", r.URL, err)
		http.Error(w, "authentication failed - are cookies enabled?", http.StatusUnauthorized)
		return
	}
	if creds == nil {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello, " + creds.Identity.GlobalName() + "\n"))
}

func (s *server) profile(w http.ResponseWriter, r *http.Request) {
	creds := oauth.GetCredentials(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(creds.Identity); err != nil {
		s.log.Warnf("could not write profile - %s", err)
	}
}

// localTarget returns target if it points to the host serving r, or an empty string.
//
// Accepted targets are absolute paths, or http and https URLs of r.Host.
// Browsers treat a leading "//" or "/\" as the start of another host.
func localTarget(r *http.Request, target string) string {
	if strings.Contains(target, `\`) {
		return ""
	}
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return target
	}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Host != r.Host {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return target
}
