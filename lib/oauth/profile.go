package oauth

// Name is the name of a person, split in its components.
type Name struct {
	FamilyName string `json:"familyName"`
	GivenName  string `json:"givenName"`
}

// CommonProfile holds the fields every provider is able to fill in.
//
// Providers embed it in their own profile type, adding whatever else they
// are able to extract from the remote server.
type CommonProfile struct {
	// Name of the provider that generated the profile.
	Provider    string `json:"provider"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	Name        Name   `json:"name"`

	// Raw is the unparsed response of the provider.
	Raw string `json:"_raw"`
	// JSON is the parsed response of the provider, minus the fields that
	// were already copied into typed fields.
	JSON map[string]interface{} `json:"_json"`
}

// Common allows any type embedding a CommonProfile to be used as a Profile.
func (cp *CommonProfile) Common() *CommonProfile {
	return cp
}

// Profile is a normalized user profile returned by a Provider.
type Profile interface {
	Common() *CommonProfile
}
