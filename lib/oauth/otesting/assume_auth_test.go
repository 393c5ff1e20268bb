package otesting

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dunice-shabanov/passport-youtube/lib/oauth"
	"github.com/stretchr/testify/assert"
)

func TestAssumedCredentials(t *testing.T) {
	creds := AssumedCredentials(" Jane@Example.com ")
	assert.Equal(t, oauth.Identity{Id: "example.com:jane", Username: "jane", Organization: "example.com"}, creds.Identity)

	creds = AssumedCredentials("bob")
	assert.Equal(t, "local", creds.Identity.Organization)
	assert.True(t, creds.Identity.Valid())
}

func TestAuthenticator(t *testing.T) {
	a := NewAuthenticator("jane@example.com")

	var seen *oauth.CredentialsCookie
	handler := oauth.WithCredentialsOrError(a, func(w http.ResponseWriter, r *http.Request) {
		seen = oauth.GetCredentials(r.Context())
	})
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if assert.NotNil(t, seen) {
		assert.Equal(t, "jane", seen.Identity.Username)
	}

	rec := httptest.NewRecorder()
	assert.NoError(t, a.PerformLogin(rec, httptest.NewRequest(http.MethodGet, "/login", nil), oauth.WithTarget("/home")))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))

	data, err := a.PerformAuth(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback", nil))
	assert.NoError(t, err)
	assert.True(t, data.Complete())
}
