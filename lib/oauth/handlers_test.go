package oauth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func credentialsRequest(t *testing.T, a *Authenticator, target string) *http.Request {
	value, err := a.EncodeCredentials(CredentialsCookie{Identity: Identity{Id: "fake:42", Username: "jdoe", Organization: "fake"}})
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(a.CredentialsCookie(value))
	return req
}

// recordCredentials returns a handler storing the credentials found in the context into creds.
func recordCredentials(creds **CredentialsCookie) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		*creds = GetCredentials(r.Context())
		w.WriteHeader(http.StatusOK)
	}
}

func TestWithCredentials(t *testing.T) {
	a := newTestAuthenticator(t, &fakeProvider{name: "fake"}, nil)

	var creds *CredentialsCookie
	handler := WithCredentials(a, recordCredentials(&creds))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, creds)

	rec = httptest.NewRecorder()
	handler(rec, credentialsRequest(t, a, "/"))
	if assert.NotNil(t, creds) {
		assert.Equal(t, "fake:42", creds.Identity.Id)
	}
}

func TestWithCredentialsOrError(t *testing.T) {
	a := newTestAuthenticator(t, &fakeProvider{name: "fake"}, nil)

	var creds *CredentialsCookie
	handler := WithCredentialsOrError(a, recordCredentials(&creds))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(a.CredentialsCookie("garbage"))
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, creds)

	rec = httptest.NewRecorder()
	handler(rec, credentialsRequest(t, a, "/"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, creds)
}

func TestWithCredentialsOrRedirect(t *testing.T) {
	a := newTestAuthenticator(t, &fakeProvider{name: "fake"}, nil)

	var creds *CredentialsCookie
	handler := WithCredentialsOrRedirect(a, recordCredentials(&creds), "/login")

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	handler(rec, credentialsRequest(t, a, "/"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, creds)
}

func TestMakeLoginHandler(t *testing.T) {
	a := newTestAuthenticator(t, &fakeProvider{name: "fake"}, nil)

	var creds *CredentialsCookie
	handler := MakeLoginHandler(a, recordCredentials(&creds), WithTarget("/home"))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	assert.NoError(t, err)
	assert.Equal(t, "provider.example.com", location.Host)
	assert.Nil(t, creds)

	rec = httptest.NewRecorder()
	handler(rec, credentialsRequest(t, a, "/"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, creds)
}

func TestAuthHandler(t *testing.T) {
	a := newTestAuthenticator(t, &fakeProvider{name: "fake"}, nil)
	handler := AuthHandler(a)

	query, cookie := startLogin(t, a, WithTarget("/home"))
	req := httptest.NewRequest(http.MethodGet, "/callback?"+query.Encode(), nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))

	query, cookie = startLogin(t, a)
	req = httptest.NewRequest(http.MethodGet, "/callback?"+query.Encode(), nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/callback", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMakeAuthHandler(t *testing.T) {
	a := newTestAuthenticator(t, &fakeProvider{name: "fake"}, nil)

	var creds *CredentialsCookie
	handler := MakeAuthHandler(a, recordCredentials(&creds))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/callback", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, creds)

	query, cookie := startLogin(t, a)
	req := httptest.NewRequest(http.MethodGet, "/callback?"+query.Encode(), nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotNil(t, creds) {
		assert.Equal(t, "fake:42", creds.Identity.Id)
	}

	query, _ = startLogin(t, a)
	_, other := startLogin(t, a)
	req = httptest.NewRequest(http.MethodGet, "/callback?"+query.Encode(), nil)
	req.AddCookie(other)
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
