package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Provider is what a specific oauth provider needs to supply to an Authenticator.
type Provider interface {
	// Name returns the name the provider is registered under, eg, "youtube".
	Name() string

	// Client returns the transport to use to exchange codes and fetch resources.
	Client() Client

	// UserProfile retrieves and normalizes the profile of the owner of accessToken.
	//
	// Exactly one of the returned values is nil.
	UserProfile(ctx context.Context, accessToken string) (Profile, error)

	// AuthorizationParams returns the extra query parameters to pass to the
	// authorization endpoint.
	AuthorizationParams(options AuthorizationOptions) map[string]string
}

// VerifyFunc decides which Identity, if any, the owner of a token is granted.
//
// It is invoked at the end of a successful code exchange with the normalized
// profile of the user. Returning an error fails the authentication.
type VerifyFunc func(ctx context.Context, tok *oauth2.Token, profile Profile) (*Identity, error)

// DefaultVerify grants every user an Identity built from the common profile fields.
//
// The id is namespaced with the provider name, the username falls back to the
// id when the provider does not supply one, and the organization is the
// provider name.
func DefaultVerify(ctx context.Context, tok *oauth2.Token, profile Profile) (*Identity, error) {
	if profile == nil || profile.Common() == nil {
		return nil, fmt.Errorf("no profile returned by provider")
	}
	common := profile.Common()
	if common.ID == "" {
		return nil, fmt.Errorf("profile from %s has no id", common.Provider)
	}

	username := common.Username
	if username == "" {
		username = common.ID
	}
	return &Identity{
		Id:           common.Provider + ":" + common.ID,
		Username:     username,
		Organization: common.Provider,
	}, nil
}
