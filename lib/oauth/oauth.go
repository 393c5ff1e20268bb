// Package oauth implements the provider independent half of an oauth2 login.
//
// The library splits an oauth2 login in two parts:
//
//  1. The generic flow, implemented by [Authenticator]: redirecting the user
//     to the authorization endpoint, verifying the state when the user comes
//     back, exchanging the code for a token, and storing the resulting
//     [Identity] in a signed cookie.
//  2. The provider specific bits, supplied through the [Provider] interface:
//     the endpoints (via a [Client]), the extra query parameters the
//     authorization endpoint understands, and how to turn an access token
//     into a normalized [Profile].
//
// Provider packages (for example, oyoutube) embed an *Authenticator built
// around themselves, so that the resulting object can be used directly as an
// [IAuthenticator]:
//
//	strategy, err := oyoutube.New(verify, oyoutube.FromFlags(flags))
//	[...]
//	http.HandleFunc("/auth/youtube/login", oauth.LoginHandler(strategy))
//	http.HandleFunc("/auth/youtube/callback", oauth.AuthHandler(strategy))
//
// The verify callback receives the token and the normalized profile, and
// decides which Identity (if any) the user is granted. When nil,
// [DefaultVerify] is used.
//
// In your other http handlers, you can then use WithCredentialsOrRedirect,
// WithCredentialsOrError or WithCredentials to have the credentials of the
// user accessible from the context of your handler with GetCredentials.
package oauth

import (
	"net/http"

	"golang.org/x/oauth2"
)

// An IAuthenticator is any object capable of performing authentication for a web server.
type IAuthenticator interface {
	// PerformLogin initiates the login process.
	//
	// PerformLogin will redirect the user to the oauth IdP login page, after
	// generating a signed cookie containing enough information to verify
	// success at the end of the process.
	//
	// PerformLogin will initiate the process even if the user is already logged in.
	PerformLogin(w http.ResponseWriter, r *http.Request, lm ...LoginModifier) error

	// PerformAuth turns the credentials received into AuthData (and a cookie).
	//
	// PerformAuth is invoked at the END of the authentication process. The URL
	// of the code invoking PerformAuth is typically configured as the oauth
	// callback URL.
	//
	// If the error returned is ErrorNotAuthenticated, it means that
	// authentication data was not found at all, meaning that a Login process
	// probably needs to be started.
	PerformAuth(w http.ResponseWriter, r *http.Request, mods ...CookieModifier) (AuthData, error)

	// GetCredentialsFromRequest extracts the credentials from an http request.
	//
	// If no authentication cookie is found, ErrorNotAuthenticated is returned.
	GetCredentialsFromRequest(r *http.Request) (*CredentialsCookie, string, error)
}

type Identity struct {
	// Id is a globally unique identifier of the user.
	//
	// It is provider specific, and prefixed with the name of the provider
	// to namespace it, for example "youtube:ABC123".
	Id string

	// The name by which a user goes by.
	//
	// Note that the Username tied to a specific user may change over time.
	Username string

	// An organization this username belongs to, the namespace in which
	// Username is unique. For accounts obtained through a consumer provider
	// this is the name of the provider itself.
	//
	// Username + "@" + Organization is guaranteed globally unique.
	// But unlike an Id, the Username may change.
	Organization string
	// Groups is a list of string identifying the groups the user is part of.
	Groups []string
}

// GlobalName returns a human friendly string identifying the user.
//
// It looks like an email, but it may or may not be a valid email address.
func (i *Identity) GlobalName() string {
	return i.Username + "@" + i.Organization
}

// Valid returns true if the identity has been initialized.
func (i *Identity) Valid() bool {
	return i.Id != "" && i.Username != "" && i.Organization != ""
}

// CredentialsCookie is what is signed within the authentication cookie returned
// to the browser or client.
//
// The cookie is signed, not encrypted: anyone holding it can read its content.
type CredentialsCookie struct {
	// An abstract representation of the identity of the user.
	// This is independent of the authentication provider.
	Identity Identity

	// Token obtained from the provider. Only available in the AuthData
	// returned at the end of a login, never stored in the cookie.
	Token oauth2.Token `json:"-"`
}
