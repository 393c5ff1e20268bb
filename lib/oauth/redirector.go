package oauth

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/dunice-shabanov/passport-youtube/lib/khttp"
)

// TargetParameter is the query parameter carrying the URL to return to after login.
const TargetParameter = "r"

// redirectedParameter marks requests already bounced through the login URL.
const redirectedParameter = "_redirected"

// Redirector is an IAuthenticator for handlers that only need to check credentials.
//
// Users without a valid credentials cookie are sent to AuthURL, normally the
// login handler of an Authenticator configured with the same symmetric key,
// with the page they were trying to reach in the TargetParameter.
type Redirector struct {
	*Extractor

	// If user does not have authentication cookie, redirect user to this URL to get one.
	AuthURL *url.URL
	// After successful authentication via redirection, send user back here by default.
	DefaultTarget string
}

// NewRedirector returns a Redirector sending users to authURL.
func NewRedirector(authURL string, mods ...Modifier) (*Redirector, error) {
	parsed, err := url.Parse(authURL)
	if err != nil {
		return nil, fmt.Errorf("invalid authentication url %s: %w", authURL, err)
	}
	extractor, err := NewExtractor(mods...)
	if err != nil {
		return nil, err
	}
	return &Redirector{Extractor: extractor, AuthURL: parsed}, nil
}

func (as *Redirector) PerformLogin(w http.ResponseWriter, r *http.Request, lm ...LoginModifier) error {
	options := LoginModifiers(lm).Apply(&LoginOptions{})
	if options.State != nil {
		return ErrorStateUnsupported
	}
	if as.AuthURL == nil {
		return ErrorCannotAuthenticate
	}

	if _, redirected := r.URL.Query()[redirectedParameter]; redirected {
		return ErrorLoops
	}

	authServer := *as.AuthURL
	target := as.DefaultTarget
	if options.Target != "" {
		target = options.Target
	}
	if target != "" {
		authServer.RawQuery = khttp.JoinURLQuery(authServer.RawQuery, TargetParameter+"="+url.QueryEscape(markRedirected(target)))
	}
	http.Redirect(w, r, authServer.String(), http.StatusTemporaryRedirect)
	return nil
}

// markRedirected adds redirectedParameter to target, so a user coming back
// still without credentials is not bounced again.
func markRedirected(target string) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return target
	}
	parsed.RawQuery = khttp.JoinURLQuery(parsed.RawQuery, redirectedParameter)
	return parsed.String()
}

func (as *Redirector) PerformAuth(w http.ResponseWriter, r *http.Request, mods ...CookieModifier) (AuthData, error) {
	creds, cookie, err := as.GetCredentialsFromRequest(r)
	if err != nil {
		return AuthData{}, err
	}
	if creds == nil {
		return AuthData{}, fmt.Errorf("invalid nil credentials")
	}
	return AuthData{Creds: creds, Cookie: cookie}, nil
}

// Authenticate returns the credentials of the user, or starts a login to
// return to the URL of the current request.
//
// When nil credentials and a nil error are returned, a redirect was written to w.
func (as *Redirector) Authenticate(w http.ResponseWriter, r *http.Request) (*CredentialsCookie, error) {
	ad, err := as.PerformAuth(w, r)
	if ad.Complete() && err == nil {
		return ad.Creds, nil
	}

	return nil, as.PerformLogin(w, r, WithTarget(khttp.RequestURL(r).String()))
}
