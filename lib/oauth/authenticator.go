package oauth

import (
	"fmt"
	"net/http"

	"github.com/dunice-shabanov/passport-youtube/lib/logger"
	"github.com/dunice-shabanov/passport-youtube/lib/token"
	"github.com/google/uuid"
)

// Authenticator performs the generic part of an oauth2 login on behalf of a Provider.
type Authenticator struct {
	Extractor

	log         logger.Logger
	authEncoder *token.TypeEncoder

	provider Provider
	verify   VerifyFunc
}

// NewAuthenticator creates an Authenticator for the specified provider.
//
// verify is invoked at the end of each successful login to map the profile
// of the user to an Identity. If nil, DefaultVerify is used.
func NewAuthenticator(provider Provider, verify VerifyFunc, mods ...Modifier) (*Authenticator, error) {
	if provider == nil {
		return nil, fmt.Errorf("API usage error - NewAuthenticator requires a non nil provider")
	}
	if verify == nil {
		verify = DefaultVerify
	}

	options := DefaultOptions()
	if err := Modifiers(mods).Apply(&options); err != nil {
		return nil, err
	}

	extractor, err := options.NewExtractor()
	if err != nil {
		return nil, err
	}
	authEncoder, err := token.NewTypeEncoder(deriveKey(options.symmetricKey, "state"), token.WithLifetime(options.authTime))
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		Extractor:   *extractor,
		log:         options.log,
		authEncoder: authEncoder,
		provider:    provider,
		verify:      verify,
	}, nil
}

// Name returns the name of the provider this Authenticator works with.
func (a *Authenticator) Name() string {
	return a.provider.Name()
}

// LoginURL computes the URL the user is redirected to to perform login.
//
// After the user authenticates, it is redirected back to the callback URL,
// which verifies the credentials, and creates the authentication cookie.
//
// Returns: the url to use, the secret the state cookie must carry, and nil or an error, in order.
func (a *Authenticator) LoginURL(target string, state interface{}, ao AuthorizationOptions) (string, string, error) {
	secret, err := uuid.NewRandom()
	if err != nil {
		return "", "", err
	}

	estate, err := a.authEncoder.Encode(LoginState{Secret: secret.String(), Target: target, State: state})
	if err != nil {
		return "", "", err
	}

	params := a.provider.AuthorizationParams(ao)
	return a.provider.Client().AuthCodeURL(string(estate), params), secret.String(), nil
}

// PerformLogin writes the response to the request to actually perform the login.
func (a *Authenticator) PerformLogin(w http.ResponseWriter, r *http.Request, lm ...LoginModifier) error {
	options := LoginModifiers(lm).Apply(&LoginOptions{})
	url, secret, err := a.LoginURL(options.Target, options.State, options.Authorization)
	if err != nil {
		return err
	}

	authcookie, err := a.authEncoder.Encode(secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, options.CookieOptions.Apply(&http.Cookie{
		Name:     stateCookieName(a.baseCookie),
		Value:    string(authcookie),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
	return nil
}

// ExtractAuth verifies the callback request, exchanges the code and builds the credentials.
//
// No cookie is set with the credentials, use PerformAuth for that.
func (a *Authenticator) ExtractAuth(w http.ResponseWriter, r *http.Request) (AuthData, error) {
	name := a.provider.Name()

	cookie, err := r.Cookie(stateCookieName(a.baseCookie))
	if err != nil || cookie == nil {
		return AuthData{}, ErrorNotAuthenticated
	}

	var secretExpected string
	if _, err := a.authEncoder.Decode(r.Context(), []byte(cookie.Value), &secretExpected); err != nil {
		observeAuthentication(name, resultStateError)
		return AuthData{}, fmt.Errorf("cookie decoding failed - %w", err)
	}

	query := r.URL.Query()
	var received LoginState
	if _, err := a.authEncoder.Decode(r.Context(), []byte(query.Get("state")), &received); err != nil {
		observeAuthentication(name, resultStateError)
		return AuthData{}, fmt.Errorf("state decoding failed - %w", err)
	}

	if secretExpected == "" || secretExpected != received.Secret {
		observeAuthentication(name, resultStateError)
		return AuthData{}, ErrorStateMismatch
	}

	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName(a.baseCookie),
		Path:   "/",
		MaxAge: -1,
	})

	if perr := query.Get("error"); perr != "" {
		observeAuthentication(name, resultDenied)
		return AuthData{}, fmt.Errorf("%w - %s: %s", ErrorAccessDenied, perr, query.Get("error_description"))
	}

	tok, err := a.provider.Client().Exchange(r.Context(), query.Get("code"))
	if err != nil {
		observeAuthentication(name, resultExchangeError)
		return AuthData{}, NewInternalError("failed to obtain access token", err)
	}
	if !tok.Valid() {
		observeAuthentication(name, resultExchangeError)
		return AuthData{}, fmt.Errorf("invalid token retrieved")
	}

	profile, err := a.provider.UserProfile(r.Context(), tok.AccessToken)
	if err != nil {
		observeAuthentication(name, resultProfileError)
		return AuthData{}, err
	}

	identity, err := a.verify(r.Context(), tok, profile)
	if err != nil {
		observeAuthentication(name, resultVerifyError)
		return AuthData{}, fmt.Errorf("user rejected - %w", err)
	}
	if identity == nil || identity.Id == "" || identity.Username == "" {
		observeAuthentication(name, resultVerifyError)
		return AuthData{}, fmt.Errorf("authentication process succeeded with no credentials")
	}

	a.log.Infof("%s: user %s authenticated", name, identity.GlobalName())
	observeAuthentication(name, resultSuccess)

	creds := CredentialsCookie{Identity: *identity, Token: *tok}
	return AuthData{Creds: &creds, Profile: profile, Target: received.Target, State: received.State}, nil
}

// PerformAuth implements the logic to handle an oauth request from an oauth provider.
func (a *Authenticator) PerformAuth(w http.ResponseWriter, r *http.Request, co ...CookieModifier) (AuthData, error) {
	auth, err := a.ExtractAuth(w, r)
	if err != nil {
		return AuthData{}, err
	}

	return a.SetCredentialsOnResponse(auth, w, co...)
}
