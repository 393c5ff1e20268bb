package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dunice-shabanov/passport-youtube/lib/token"
)

// Extractor is an object capable of extracting and verifying authentication information.
type Extractor struct {
	loginEncoder *token.TypeEncoder

	// String to prepend to the cookie name.
	// This is necessary when multiple instances of the oauth library are used within
	// the same application, or to ensure the uniqueness of the cookie name in a complex app.
	baseCookie string
}

type CredentialsMeta struct {
	context.Context
}

func (ctx CredentialsMeta) Issued() time.Time {
	issued, _ := ctx.Value(token.IssuedTimeKey).(time.Time)
	return issued
}

func (ctx CredentialsMeta) Expires() time.Time {
	expire, _ := ctx.Value(token.ExpiresTimeKey).(time.Time)
	return expire
}

// ParseCredentialsCookie parses a string containing a CredentialsCookie, and returns the corresponding object.
func (a *Extractor) ParseCredentialsCookie(cookie string) (CredentialsMeta, *CredentialsCookie, error) {
	var credentials CredentialsCookie
	ctx, err := a.loginEncoder.Decode(context.Background(), []byte(cookie), &credentials)
	return CredentialsMeta{ctx}, &credentials, err
}

// EncodeCredentials generates a string containing a CredentialsCookie.
func (a *Extractor) EncodeCredentials(creds CredentialsCookie) (string, error) {
	result, err := a.loginEncoder.Encode(creds)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// GetCredentialsFromRequest will parse and validate the credentials in an http request.
//
// If successful, it will return a CredentialsCookie pointer and the string content of the cookie.
// If no credentials, or invalid credentials, an error is returned with nil credentials and no cookie.
func (a *Extractor) GetCredentialsFromRequest(r *http.Request) (*CredentialsCookie, string, error) {
	cookie, err := r.Cookie(a.CredentialsCookieName())
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, "", ErrorNotAuthenticated
		}

		return nil, "", err
	}

	_, credentials, err := a.ParseCredentialsCookie(cookie.Value)
	if err != nil {
		return nil, "", err
	}
	if credentials == nil || credentials.Identity.Id == "" {
		return nil, "", fmt.Errorf("invalid empty credentials")
	}
	return credentials, cookie.Value, nil
}

// SetCredentialsOnResponse encodes the credentials in ad, and sets the corresponding cookie.
func (a *Extractor) SetCredentialsOnResponse(ad AuthData, w http.ResponseWriter, co ...CookieModifier) (AuthData, error) {
	ccookie, err := a.EncodeCredentials(*ad.Creds)
	if err != nil {
		return AuthData{}, err
	}
	http.SetCookie(w, a.CredentialsCookie(ccookie, co...))
	return AuthData{Creds: ad.Creds, Profile: ad.Profile, Cookie: ccookie, Target: ad.Target, State: ad.State}, nil
}

// CredentialsCookie will create an http.Cookie object containing the user credentials.
func (a *Extractor) CredentialsCookie(value string, co ...CookieModifier) *http.Cookie {
	return CookieModifiers(co).Apply(&http.Cookie{
		Name:     a.CredentialsCookieName(),
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// CredentialsCookieName returns the name of the cookie maintaing the set of user credentials.
//
// This cookie is the one used to determine what the user can and cannot do on the UI.
func (a *Extractor) CredentialsCookieName() string {
	return credentialsCookieName(a.baseCookie)
}
