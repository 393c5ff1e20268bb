package oauth

import (
	"errors"
	"net/http"
	"time"
)

var (
	ErrorNotAuthenticated = errors.New("no authentication information found")
	ErrorLoops            = errors.New("authentication loop detected")
	ErrorStateMismatch    = errors.New("login state does not match")
	ErrorAccessDenied     = errors.New("provider denied access")

	ErrorStateUnsupported   = errors.New("state cannot be propagated through a redirect")
	ErrorCannotAuthenticate = errors.New("no url to redirect to for authentication")
)

// AuthorizationOptions are the options a login request can pass to the
// authorization endpoint of the provider.
//
// Empty fields are considered unset. Providers translate the options they
// understand into query parameters with AuthorizationParams, and ignore
// the others.
type AuthorizationOptions struct {
	AccessType     string
	ApprovalPrompt string
	Prompt         string
	LoginHint      string
	UserID         string
	HostedDomain   string
	// HD is an alias of HostedDomain. HostedDomain wins if both are set.
	HD string
}

// LoginState is carried through the provider in the state parameter.
type LoginState struct {
	Secret string
	Target string
	State  interface{}
}

type LoginOptions struct {
	// Where to redirect the user at the end of authentication.
	Target string
	// Opaque application state, returned in AuthData at the end of authentication.
	State interface{}
	// Options forwarded to the authorization endpoint.
	Authorization AuthorizationOptions

	CookieOptions CookieModifiers
}

type LoginModifier func(*LoginOptions)

func WithTarget(target string) LoginModifier {
	return func(lo *LoginOptions) {
		lo.Target = target
	}
}

func WithState(state interface{}) LoginModifier {
	return func(lo *LoginOptions) {
		lo.State = state
	}
}

func WithAuthorizationOptions(ao AuthorizationOptions) LoginModifier {
	return func(lo *LoginOptions) {
		lo.Authorization = ao
	}
}

func WithCookieOptions(mods ...CookieModifier) LoginModifier {
	return func(lo *LoginOptions) {
		lo.CookieOptions = append(lo.CookieOptions, mods...)
	}
}

type LoginModifiers []LoginModifier

func (lm LoginModifiers) Apply(lo *LoginOptions) *LoginOptions {
	for _, m := range lm {
		m(lo)
	}
	return lo
}

// CookieModifier customizes the cookies set by the library.
type CookieModifier func(*http.Cookie)

type CookieModifiers []CookieModifier

func (cm CookieModifiers) Apply(cookie *http.Cookie) *http.Cookie {
	for _, m := range cm {
		m(cookie)
	}
	return cookie
}

func WithSecure(secure bool) CookieModifier {
	return func(c *http.Cookie) {
		c.Secure = secure
	}
}

func WithPath(path string) CookieModifier {
	return func(c *http.Cookie) {
		c.Path = path
	}
}

func WithDomain(domain string) CookieModifier {
	return func(c *http.Cookie) {
		c.Domain = domain
	}
}

func WithMaxAge(age time.Duration) CookieModifier {
	return func(c *http.Cookie) {
		c.MaxAge = int(age.Seconds())
	}
}

// AuthData is the result of a completed authentication.
type AuthData struct {
	Creds *CredentialsCookie
	// The normalized profile returned by the provider. Only set by
	// Authenticator.PerformAuth, not when credentials come from a cookie.
	Profile Profile
	Cookie  string
	Target  string
	State   interface{}
}

// Complete returns true if the authentication produced usable credentials.
func (ad AuthData) Complete() bool {
	return ad.Creds != nil && ad.Creds.Identity.Id != ""
}
