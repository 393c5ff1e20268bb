// Package otesting provides helpers to assume authenticated users in tests
// and local development without talking to a real provider.
//
// Example:
//
//	assumed := otesting.NewAuthenticator("jane@example.com")
//	http.HandleFunc("/profile", oauth.WithCredentialsOrError(assumed, profile))
package otesting

import (
	"net/http"
	"strings"

	"github.com/dunice-shabanov/passport-youtube/lib/oauth"
)

// AssumedCredentials returns credentials for a specific user, used for local testing.
//
// user is split at the first @ in username and organization. Without an @,
// the organization is "local".
func AssumedCredentials(user string) *oauth.CredentialsCookie {
	trimmed := strings.TrimSpace(strings.ToLower(user))
	username, organization := trimmed, "local"
	if parts := strings.SplitN(trimmed, "@", 2); len(parts) == 2 {
		username = parts[0]
		organization = parts[1]
	}
	return &oauth.CredentialsCookie{
		Identity: oauth.Identity{
			Id:           organization + ":" + username,
			Username:     username,
			Organization: organization,
		},
	}
}

// Authenticator is an oauth.IAuthenticator that considers every request
// authenticated as the same user.
type Authenticator struct {
	Creds *oauth.CredentialsCookie
}

func NewAuthenticator(user string) *Authenticator {
	return &Authenticator{Creds: AssumedCredentials(user)}
}

// PerformLogin sends the user straight to the login target.
func (a *Authenticator) PerformLogin(w http.ResponseWriter, r *http.Request, lm ...oauth.LoginModifier) error {
	options := oauth.LoginModifiers(lm).Apply(&oauth.LoginOptions{})
	target := options.Target
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	return nil
}

func (a *Authenticator) PerformAuth(w http.ResponseWriter, r *http.Request, mods ...oauth.CookieModifier) (oauth.AuthData, error) {
	return oauth.AuthData{Creds: a.Creds}, nil
}

func (a *Authenticator) GetCredentialsFromRequest(r *http.Request) (*oauth.CredentialsCookie, string, error) {
	return a.Creds, "", nil
}

// Authenticate returns the assumed credentials.
func (a *Authenticator) Authenticate(w http.ResponseWriter, r *http.Request) (*oauth.CredentialsCookie, error) {
	return a.Creds, nil
}

var _ oauth.IAuthenticator = (*Authenticator)(nil)
