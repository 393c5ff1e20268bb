package oauth

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestCredentialsCookieOmitsToken(t *testing.T) {
	extractor, err := NewExtractor(WithSymmetricKey([]byte("0123456789abcdef0123456789abcdef")))
	assert.NoError(t, err)

	identity := Identity{Id: "youtube:ABC123", Username: "janedoe", Organization: "youtube"}
	value, err := extractor.EncodeCredentials(CredentialsCookie{
		Identity: identity,
		Token:    oauth2.Token{AccessToken: "ya29.SECRET-ACCESS-TOKEN", RefreshToken: "1//SECRET-REFRESH-TOKEN"},
	})
	assert.NoError(t, err)

	// The payload is readable by anyone, without the key.
	parts := strings.Split(value, ".")
	if !assert.Len(t, parts, 3) {
		return
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	assert.NoError(t, err)
	assert.Contains(t, string(payload), "youtube:ABC123")
	assert.NotContains(t, string(payload), "SECRET")
	assert.NotContains(t, string(payload), "access_token")

	_, parsed, err := extractor.ParseCredentialsCookie(value)
	assert.NoError(t, err)
	assert.Equal(t, identity, parsed.Identity)
	assert.Equal(t, oauth2.Token{}, parsed.Token)
}
