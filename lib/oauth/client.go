package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"

	"golang.org/x/oauth2"
)

// Client is the transport a Provider uses to talk to the remote server.
type Client interface {
	// AuthCodeURL returns the URL of the authorization endpoint, with the
	// state and the extra query parameters supplied.
	AuthCodeURL(state string, params map[string]string) string

	// Exchange turns an authorization code into a token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// GetProtectedResource fetches url using accessToken as a bearer credential.
	//
	// A response with a status other than 2xx is returned as a *StatusError,
	// together with the response itself.
	GetProtectedResource(ctx context.Context, url string, accessToken string) ([]byte, *http.Response, error)
}

// StatusError is returned by GetProtectedResource when the server replies
// with an unexpected status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (se *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d - %s", se.StatusCode, se.Body)
}

// InternalError wraps a failure in talking to the provider with a description
// of the operation that was being attempted.
type InternalError struct {
	Message string
	Err     error
}

func (ie *InternalError) Error() string {
	if ie.Err == nil {
		return ie.Message
	}
	return ie.Message + ": " + ie.Err.Error()
}

func (ie *InternalError) Unwrap() error {
	return ie.Err
}

func NewInternalError(message string, err error) *InternalError {
	return &InternalError{Message: message, Err: err}
}

// ConfigClient implements Client on top of an oauth2.Config.
type ConfigClient struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

type ClientModifier func(*ConfigClient)

// WithHTTPClient configures the http client used for all requests.
//
// Use it to configure timeouts, proxies, or to talk to test servers.
func WithHTTPClient(client *http.Client) ClientModifier {
	return func(cc *ConfigClient) {
		cc.httpClient = client
	}
}

func NewClient(conf *oauth2.Config, mods ...ClientModifier) *ConfigClient {
	cc := &ConfigClient{conf: conf}
	for _, m := range mods {
		m(cc)
	}
	return cc
}

// Config returns the oauth2 configuration in use. It must not be modified.
func (cc *ConfigClient) Config() *oauth2.Config {
	return cc.conf
}

func (cc *ConfigClient) context(ctx context.Context) context.Context {
	if cc.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, cc.httpClient)
}

func (cc *ConfigClient) AuthCodeURL(state string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	opts := make([]oauth2.AuthCodeOption, 0, len(keys))
	for _, key := range keys {
		opts = append(opts, oauth2.SetAuthURLParam(key, params[key]))
	}
	return cc.conf.AuthCodeURL(state, opts...)
}

func (cc *ConfigClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return cc.conf.Exchange(cc.context(ctx), code)
}

func (cc *ConfigClient) GetProtectedResource(ctx context.Context, url string, accessToken string) ([]byte, *http.Response, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	client := oauth2.NewClient(cc.context(ctx), source)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, fmt.Errorf("could not read response body - %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, resp, nil
}
