// Package oyoutube authenticates users with their YouTube account.
//
// The Strategy it provides is an oauth.IAuthenticator: it uses the Google
// oauth2 endpoints to obtain an access token, and the YouTube GData user
// feed to retrieve and normalize the profile of the user.
//
// Example:
//
//	strategy, err := oyoutube.New(nil,
//		oyoutube.WithClientID(id), oyoutube.WithClientSecret(secret),
//		oyoutube.WithCallbackURL("https://example.com/auth/youtube/callback"))
//	[...]
//	http.HandleFunc("/auth/youtube/login", oauth.LoginHandler(strategy))
//	http.HandleFunc("/auth/youtube/callback", oauth.AuthHandler(strategy))
package oyoutube

import (
	"context"
	"net/http"
	"strings"

	"github.com/dunice-shabanov/passport-youtube/lib/kflags"
	"github.com/dunice-shabanov/passport-youtube/lib/logger"
	"github.com/dunice-shabanov/passport-youtube/lib/oauth"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/oauth2"
)

// Name is the name the strategy is registered under.
const Name = "youtube"

const (
	DefaultAuthorizationURL = "https://accounts.google.com/o/oauth2/auth"
	DefaultTokenURL         = "https://accounts.google.com/o/oauth2/token"
	DefaultProfileURL       = "https://gdata.youtube.com/feeds/api/users/default?alt=json"
	DefaultScopeSeparator   = ","
)

// Strategy authenticates users through YouTube.
//
// Its configuration is immutable after New returns, and it is safe for
// concurrent use.
type Strategy struct {
	*oauth.Authenticator

	client           oauth.Client
	authorizationURL string
	tokenURL         string
	profileURL       string
	scopeSeparator   string
}

type Flags struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string

	AuthorizationURL string
	TokenURL         string
	ProfileURL       string
	ScopeSeparator   string
	// Scopes to request, separated by commas.
	Scopes string

	OAuth *oauth.Flags
}

func DefaultFlags() *Flags {
	return &Flags{
		AuthorizationURL: DefaultAuthorizationURL,
		TokenURL:         DefaultTokenURL,
		ProfileURL:       DefaultProfileURL,
		ScopeSeparator:   DefaultScopeSeparator,
		OAuth:            oauth.DefaultFlags(),
	}
}

func (f *Flags) Register(set kflags.FlagSet, prefix string) *Flags {
	set.StringVar(&f.ClientID, prefix+"youtube-client-id", f.ClientID, "Client ID of the oauth application, as shown in the Google developer console")
	set.StringVar(&f.ClientSecret, prefix+"youtube-client-secret", f.ClientSecret, "Client secret of the oauth application")
	set.StringVar(&f.CallbackURL, prefix+"youtube-callback-url", f.CallbackURL, "URL the user is sent back to at the end of authentication")
	set.StringVar(&f.AuthorizationURL, prefix+"youtube-authorization-url", f.AuthorizationURL, "Authorization endpoint")
	set.StringVar(&f.TokenURL, prefix+"youtube-token-url", f.TokenURL, "Token endpoint")
	set.StringVar(&f.ProfileURL, prefix+"youtube-profile-url", f.ProfileURL, "URL returning the profile of the authenticated user")
	set.StringVar(&f.ScopeSeparator, prefix+"youtube-scope-separator", f.ScopeSeparator, "String used to join the requested scopes")
	set.StringVar(&f.Scopes, prefix+"youtube-scopes", f.Scopes, "Comma separated list of scopes to request")
	f.OAuth.Register(set, prefix+"youtube-")
	return f
}

type options struct {
	log logger.Logger

	clientID     string
	clientSecret string
	callbackURL  string

	authorizationURL string
	tokenURL         string
	profileURL       string
	scopeSeparator   string
	scopes           []string

	client     oauth.Client
	httpClient *http.Client
	oauthMods  []oauth.Modifier
}

type Modifier func(*options) error

type Modifiers []Modifier

func (mods Modifiers) Apply(o *options) error {
	for _, m := range mods {
		if err := m(o); err != nil {
			return err
		}
	}
	return nil
}

// setString assigns value to dest unless empty, so unset options keep their default.
func setString(dest *string, value string) {
	if value != "" {
		*dest = value
	}
}

func WithLogger(log logger.Logger) Modifier {
	return func(o *options) error {
		o.log = log
		return nil
	}
}

func WithClientID(id string) Modifier {
	return func(o *options) error {
		o.clientID = id
		return nil
	}
}

func WithClientSecret(secret string) Modifier {
	return func(o *options) error {
		o.clientSecret = secret
		return nil
	}
}

func WithCallbackURL(url string) Modifier {
	return func(o *options) error {
		o.callbackURL = url
		return nil
	}
}

func WithAuthorizationURL(url string) Modifier {
	return func(o *options) error {
		setString(&o.authorizationURL, url)
		return nil
	}
}

func WithTokenURL(url string) Modifier {
	return func(o *options) error {
		setString(&o.tokenURL, url)
		return nil
	}
}

func WithProfileURL(url string) Modifier {
	return func(o *options) error {
		setString(&o.profileURL, url)
		return nil
	}
}

func WithScopeSeparator(separator string) Modifier {
	return func(o *options) error {
		setString(&o.scopeSeparator, separator)
		return nil
	}
}

func WithScopes(scopes ...string) Modifier {
	return func(o *options) error {
		o.scopes = append(o.scopes, scopes...)
		return nil
	}
}

// WithClient replaces the oauth2 client built from the configured endpoints.
//
// The authorization and token URLs, client id, secret and callback are all
// ignored when a client is supplied.
func WithClient(client oauth.Client) Modifier {
	return func(o *options) error {
		o.client = client
		return nil
	}
}

// WithHTTPClient configures the http client used to talk to the provider.
func WithHTTPClient(client *http.Client) Modifier {
	return func(o *options) error {
		o.httpClient = client
		return nil
	}
}

// WithOAuthModifiers passes modifiers to the underlying oauth.Authenticator.
func WithOAuthModifiers(mods ...oauth.Modifier) Modifier {
	return func(o *options) error {
		o.oauthMods = append(o.oauthMods, mods...)
		return nil
	}
}

func FromFlags(flags *Flags) Modifier {
	return func(o *options) error {
		o.clientID = flags.ClientID
		o.clientSecret = flags.ClientSecret
		o.callbackURL = flags.CallbackURL
		setString(&o.authorizationURL, flags.AuthorizationURL)
		setString(&o.tokenURL, flags.TokenURL)
		setString(&o.profileURL, flags.ProfileURL)
		setString(&o.scopeSeparator, flags.ScopeSeparator)
		for _, scope := range strings.Split(flags.Scopes, ",") {
			if scope = strings.TrimSpace(scope); scope != "" {
				o.scopes = append(o.scopes, scope)
			}
		}
		if flags.OAuth != nil {
			o.oauthMods = append(o.oauthMods, oauth.FromFlags(flags.OAuth))
		}
		return nil
	}
}

// Config is the loosely typed configuration accepted by FromOptions.
type Config struct {
	AuthorizationURL string   `mapstructure:"authorizationURL"`
	TokenURL         string   `mapstructure:"tokenURL"`
	ProfileURL       string   `mapstructure:"profileURL"`
	ScopeSeparator   string   `mapstructure:"scopeSeparator"`
	ClientID         string   `mapstructure:"clientID"`
	ClientSecret     string   `mapstructure:"clientSecret"`
	CallbackURL      string   `mapstructure:"callbackURL"`
	Scope            []string `mapstructure:"scope"`
}

// FromOptions configures the strategy from a generic map, as typically
// obtained by parsing a JSON or YAML configuration file.
//
// Recognized keys are the mapstructure tags of Config. A single string is
// accepted for "scope". Unknown keys are ignored, empty values leave the
// defaults in place.
func FromOptions(values map[string]interface{}) Modifier {
	return func(o *options) error {
		var config Config
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &config,
		})
		if err != nil {
			return err
		}
		if err := decoder.Decode(values); err != nil {
			return kflags.NewUsageErrorf("invalid youtube strategy options: %w", err)
		}

		setString(&o.clientID, config.ClientID)
		setString(&o.clientSecret, config.ClientSecret)
		setString(&o.callbackURL, config.CallbackURL)
		setString(&o.authorizationURL, config.AuthorizationURL)
		setString(&o.tokenURL, config.TokenURL)
		setString(&o.profileURL, config.ProfileURL)
		setString(&o.scopeSeparator, config.ScopeSeparator)
		o.scopes = append(o.scopes, config.Scope...)
		return nil
	}
}

// New creates a Strategy.
//
// verify maps the normalized profile to an identity at the end of each
// login, see oauth.VerifyFunc. If nil, oauth.DefaultVerify is used.
func New(verify oauth.VerifyFunc, mods ...Modifier) (*Strategy, error) {
	o := &options{
		log:              logger.Go,
		authorizationURL: DefaultAuthorizationURL,
		tokenURL:         DefaultTokenURL,
		profileURL:       DefaultProfileURL,
		scopeSeparator:   DefaultScopeSeparator,
	}
	if err := Modifiers(mods).Apply(o); err != nil {
		return nil, err
	}

	client := o.client
	if client == nil {
		if o.clientID == "" {
			return nil, kflags.NewUsageErrorf("youtube strategy requires a client id")
		}

		conf := &oauth2.Config{
			ClientID:     o.clientID,
			ClientSecret: o.clientSecret,
			RedirectURL:  o.callbackURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  o.authorizationURL,
				TokenURL: o.tokenURL,
			},
		}
		// oauth2 joins scopes with spaces, the provider expects scopeSeparator.
		if len(o.scopes) > 0 {
			conf.Scopes = []string{strings.Join(o.scopes, o.scopeSeparator)}
		}

		var cmods []oauth.ClientModifier
		if o.httpClient != nil {
			cmods = append(cmods, oauth.WithHTTPClient(o.httpClient))
		}
		client = oauth.NewClient(conf, cmods...)
	}

	s := &Strategy{
		client:           client,
		authorizationURL: o.authorizationURL,
		tokenURL:         o.tokenURL,
		profileURL:       o.profileURL,
		scopeSeparator:   o.scopeSeparator,
	}

	authenticator, err := oauth.NewAuthenticator(s, verify, append([]oauth.Modifier{oauth.WithLogger(o.log)}, o.oauthMods...)...)
	if err != nil {
		return nil, err
	}
	s.Authenticator = authenticator
	return s, nil
}

func (s *Strategy) Name() string {
	return Name
}

func (s *Strategy) Client() oauth.Client {
	return s.client
}

func (s *Strategy) AuthorizationURL() string {
	return s.authorizationURL
}

func (s *Strategy) TokenURL() string {
	return s.tokenURL
}

func (s *Strategy) ProfileURL() string {
	return s.profileURL
}

func (s *Strategy) ScopeSeparator() string {
	return s.scopeSeparator
}

// UserProfile retrieves the profile of the owner of accessToken.
//
// Failures to retrieve the profile are returned as *oauth.InternalError.
// Responses that cannot be parsed, or that lack the expected entry and id,
// return the parsing error as is. The returned profile is a *Profile.
func (s *Strategy) UserProfile(ctx context.Context, accessToken string) (oauth.Profile, error) {
	body, _, err := s.client.GetProtectedResource(ctx, s.profileURL, accessToken)
	if err != nil {
		err = oauth.NewInternalError("failed to fetch user profile", err)
		oauth.ObserveProfileFetch(Name, err)
		return nil, err
	}

	profile, err := ParseProfile(body)
	oauth.ObserveProfileFetch(Name, err)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// AuthorizationParams returns the query parameters for the authorization endpoint.
func (s *Strategy) AuthorizationParams(options oauth.AuthorizationOptions) map[string]string {
	return AuthorizationParams(options)
}

var _ oauth.Provider = (*Strategy)(nil)
var _ oauth.NamedAuthenticator = (*Strategy)(nil)
