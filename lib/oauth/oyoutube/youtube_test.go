package oyoutube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dunice-shabanov/passport-youtube/lib/kflags"
	"github.com/dunice-shabanov/passport-youtube/lib/logger"
	"github.com/dunice-shabanov/passport-youtube/lib/oauth"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

const fullProfile = `{
  "version": "1.0",
  "encoding": "UTF-8",
  "entry": {
    "xmlns": "http://www.w3.org/2005/Atom",
    "xmlns$media": "http://search.yahoo.com/mrss/",
    "xmlns$gd": "http://schemas.google.com/g/2005",
    "xmlns$yt": "http://gdata.youtube.com/schemas/2007",
    "id": {"$t": "http://gdata.youtube.com/feeds/api/users/ABC123"},
    "published": {"$t": "2012-05-01T10:00:00.000Z"},
    "updated": {"$t": "2014-01-10T12:00:00.000Z"},
    "title": {"$t": "Jane Doe"},
    "content": {"$t": "My channel"},
    "yt$googlePlusUserId": {"$t": "1122334455"},
    "yt$location": {"$t": "IT"},
    "yt$statistics": {"lastWebAccess": "1970-01-01T00:00:00.000Z", "subscriberCount": "42"},
    "yt$username": {"$t": "janedoe"},
    "yt$lastName": {"$t": "Doe"},
    "yt$firstName": {"$t": "Jane"},
    "media$thumbnail": {"url": "https://yt3.ggpht.com/photo.jpg"}
  }
}`

func newStrategy(t *testing.T, mods ...Modifier) *Strategy {
	t.Helper()
	mods = append([]Modifier{
		WithClientID("client-id"),
		WithLogger(logger.Nil),
		WithOAuthModifiers(oauth.WithSymmetricKey([]byte("0123456789abcdef0123456789abcdef"))),
	}, mods...)
	s, err := New(nil, mods...)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return s
}

// profileServer returns a server replying with body to requests carrying the "test-token" bearer.
func profileServer(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fetchProfile(t *testing.T, body string) (oauth.Profile, error) {
	srv := profileServer(t, http.StatusOK, body)
	s := newStrategy(t, WithProfileURL(srv.URL+"/feeds/api/users/default?alt=json"))
	return s.UserProfile(context.Background(), "test-token")
}

func TestDefaults(t *testing.T) {
	s := newStrategy(t)
	assert.Equal(t, "youtube", s.Name())
	assert.Equal(t, DefaultAuthorizationURL, s.AuthorizationURL())
	assert.Equal(t, DefaultTokenURL, s.TokenURL())
	assert.Equal(t, DefaultProfileURL, s.ProfileURL())
	assert.Equal(t, ",", s.ScopeSeparator())

	s = newStrategy(t, FromOptions(map[string]interface{}{
		"authorizationURL":  "https://example.com/auth",
		"tokenURL":          "",
		"profileURL":        "https://example.com/me",
		"scopeSeparator":    " ",
		"passReqToCallback": true,
	}))
	assert.Equal(t, "https://example.com/auth", s.AuthorizationURL())
	assert.Equal(t, DefaultTokenURL, s.TokenURL())
	assert.Equal(t, "https://example.com/me", s.ProfileURL())
	assert.Equal(t, " ", s.ScopeSeparator())
}

func TestScopesJoinedWithSeparator(t *testing.T) {
	s := newStrategy(t, WithScopes("https://gdata.youtube.com", "profile"))
	client, ok := s.Client().(*oauth.ConfigClient)
	if assert.True(t, ok) {
		assert.Equal(t, []string{"https://gdata.youtube.com,profile"}, client.Config().Scopes)
	}

	s = newStrategy(t, FromOptions(map[string]interface{}{"scope": "email", "scopeSeparator": "+"}), WithScopes("profile"))
	client = s.Client().(*oauth.ConfigClient)
	assert.Equal(t, []string{"email+profile"}, client.Config().Scopes)
}

func TestFromFlags(t *testing.T) {
	flags := DefaultFlags()
	flags.ClientID = "flag-id"
	flags.ProfileURL = ""
	flags.Scopes = " a, ,b "
	s := newStrategy(t, FromFlags(flags))

	client := s.Client().(*oauth.ConfigClient)
	assert.Equal(t, "flag-id", client.Config().ClientID)
	assert.Equal(t, []string{"a,b"}, client.Config().Scopes)
	assert.Equal(t, DefaultProfileURL, s.ProfileURL())

	flags.OAuth.SymmetricKey = "not hex"
	_, err := New(nil, FromFlags(flags))
	var ue *kflags.UsageError
	assert.True(t, errors.As(err, &ue), "got %v", err)
}

func TestRequiresClientID(t *testing.T) {
	_, err := New(nil)
	var ue *kflags.UsageError
	assert.True(t, errors.As(err, &ue), "got %v", err)
}

func TestUserProfile(t *testing.T) {
	result, err := fetchProfile(t, fullProfile)
	assert.NoError(t, err)
	profile, ok := result.(*Profile)
	if !assert.True(t, ok) {
		return
	}

	expected := &Profile{
		CommonProfile: oauth.CommonProfile{
			Provider:    "youtube",
			ID:          "ABC123",
			DisplayName: "Jane Doe",
			Username:    "janedoe",
			Name:        oauth.Name{FamilyName: "Doe", GivenName: "Jane"},
			Raw:         fullProfile,
			JSON: map[string]interface{}{
				"id":              map[string]interface{}{"$t": "http://gdata.youtube.com/feeds/api/users/ABC123"},
				"published":       map[string]interface{}{"$t": "2012-05-01T10:00:00.000Z"},
				"updated":         map[string]interface{}{"$t": "2014-01-10T12:00:00.000Z"},
				"title":           map[string]interface{}{"$t": "Jane Doe"},
				"content":         map[string]interface{}{"$t": "My channel"},
				"yt$lastName":     map[string]interface{}{"$t": "Doe"},
				"yt$firstName":    map[string]interface{}{"$t": "Jane"},
				"media$thumbnail": map[string]interface{}{"url": "https://yt3.ggpht.com/photo.jpg"},
			},
		},
		ChannelID:        "UCABC123",
		Published:        "2012-05-01T10:00:00.000Z",
		Updated:          "2014-01-10T12:00:00.000Z",
		Title:            "Jane Doe",
		Content:          "My channel",
		GooglePlusUserID: "1122334455",
		Location:         "IT",
		Statistics:       map[string]interface{}{"lastWebAccess": "1970-01-01T00:00:00.000Z", "subscriberCount": "42"},
	}
	if diff := cmp.Diff(expected, profile); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestUserProfileNameFallback(t *testing.T) {
	result, err := fetchProfile(t, `{"entry": {
		"id": {"$t": "http://gdata.youtube.com/feeds/api/users/XYZ"},
		"title": {"$t": "Some Channel"},
		"yt$firstName": {"$t": "Only"}
	}}`)
	assert.NoError(t, err)
	profile := result.(*Profile)
	assert.Equal(t, oauth.Name{FamilyName: "", GivenName: "Some Channel"}, profile.Name)
	assert.Equal(t, "Some Channel", profile.DisplayName)
}

func TestUserProfileIDPassthrough(t *testing.T) {
	result, err := fetchProfile(t, `{"entry": {"id": {"$t": "https://example.com/users/ABC123"}, "title": {"$t": "x"}}}`)
	assert.NoError(t, err)
	profile := result.(*Profile)
	assert.Equal(t, "https://example.com/users/ABC123", profile.ID)
	assert.Equal(t, "UChttps://example.com/users/ABC123", profile.ChannelID)
}

func TestUserProfileMissingOptionalFields(t *testing.T) {
	result, err := fetchProfile(t, `{"entry": {
		"id": {"$t": "http://gdata.youtube.com/feeds/api/users/ABC123"},
		"published": "not-an-object",
		"updated": {"no-value": true},
		"yt$location": {"$t": "US"},
		"yt$statistics": "invalid"
	}}`)
	assert.NoError(t, err)
	profile := result.(*Profile)

	assert.Equal(t, "ABC123", profile.ID)
	assert.Equal(t, "US", profile.Location)
	assert.Equal(t, "", profile.Published)
	assert.Equal(t, "", profile.Updated)
	assert.Equal(t, "", profile.Title)
	assert.Equal(t, "", profile.Content)
	assert.Equal(t, "", profile.GooglePlusUserID)
	assert.Equal(t, "", profile.Username)
	assert.Equal(t, "", profile.DisplayName)
	assert.Equal(t, map[string]interface{}{}, profile.Statistics)
	assert.Equal(t, oauth.Name{}, profile.Name)
	assert.NotContains(t, profile.JSON, "yt$location")
	assert.NotContains(t, profile.JSON, "yt$statistics")
	assert.Contains(t, profile.JSON, "published")
}

func TestUserProfileFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := newStrategy(t, WithProfileURL(url))
	profile, err := s.UserProfile(context.Background(), "test-token")
	assert.Nil(t, profile)

	var ie *oauth.InternalError
	if assert.True(t, errors.As(err, &ie), "got %v", err) {
		assert.Equal(t, "failed to fetch user profile", ie.Message)
		assert.NotNil(t, ie.Unwrap())
	}
}

func TestUserProfileStatusFailure(t *testing.T) {
	srv := profileServer(t, http.StatusForbidden, `{"error": "quota"}`)
	s := newStrategy(t, WithProfileURL(srv.URL))
	profile, err := s.UserProfile(context.Background(), "test-token")
	assert.Nil(t, profile)

	var ie *oauth.InternalError
	assert.True(t, errors.As(err, &ie), "got %v", err)
	var se *oauth.StatusError
	if assert.True(t, errors.As(err, &se), "got %v", err) {
		assert.Equal(t, http.StatusForbidden, se.StatusCode)
	}
}

func TestUserProfileMalformed(t *testing.T) {
	t.Run("NotJSON", func(t *testing.T) {
		profile, err := fetchProfile(t, "<feed>xml</feed>")
		assert.Nil(t, profile)
		var se *json.SyntaxError
		assert.True(t, errors.As(err, &se), "got %v", err)
		var ie *oauth.InternalError
		assert.False(t, errors.As(err, &ie))
	})

	t.Run("NoEntry", func(t *testing.T) {
		profile, err := fetchProfile(t, `{"feed": {}}`)
		assert.Nil(t, profile)
		assert.Equal(t, ErrMissingEntry, err)
	})

	t.Run("NotAnObject", func(t *testing.T) {
		profile, err := fetchProfile(t, `["entry"]`)
		assert.Nil(t, profile)
		assert.Error(t, err)
	})

	t.Run("PrefixOnlyID", func(t *testing.T) {
		profile, err := fetchProfile(t, `{"entry": {"id": {"$t": "http://gdata.youtube.com/feeds/api/users/"}}}`)
		assert.Nil(t, profile)
		assert.Equal(t, ErrMissingID, err)
	})

	t.Run("NoID", func(t *testing.T) {
		profile, err := fetchProfile(t, `{"entry": {"id": "http://gdata.youtube.com/feeds/api/users/ABC123"}}`)
		assert.Nil(t, profile)
		assert.Equal(t, ErrMissingID, err)
	})
}

func TestAuthorizationParams(t *testing.T) {
	s := newStrategy(t)
	assert.Equal(t, map[string]string{"access_type": "offline"}, s.AuthorizationParams(oauth.AuthorizationOptions{AccessType: "offline"}))
	assert.Equal(t, map[string]string{"hd": "example.com"}, s.AuthorizationParams(oauth.AuthorizationOptions{HostedDomain: "example.com", HD: "other.com"}))
	assert.Equal(t, map[string]string{"hd": "other.com"}, s.AuthorizationParams(oauth.AuthorizationOptions{HD: "other.com"}))
	assert.Equal(t, map[string]string{}, s.AuthorizationParams(oauth.AuthorizationOptions{}))

	assert.Equal(t, map[string]string{
		"access_type":     "online",
		"approval_prompt": "force",
		"prompt":          "select_account",
		"login_hint":      "jane@example.com",
		"user_id":         "1234",
	}, AuthorizationParams(oauth.AuthorizationOptions{
		AccessType:     "online",
		ApprovalPrompt: "force",
		Prompt:         "select_account",
		LoginHint:      "jane@example.com",
		UserID:         "1234",
	}))
}

func TestConvertProfileFields(t *testing.T) {
	assert.Equal(t, "id,last_name,first_name", ConvertProfileFields([]string{"id", "name", "bogus"}))
	assert.Equal(t, "name,username", ConvertProfileFields([]string{"displayName", "username"}))
	assert.Equal(t, "", ConvertProfileFields(nil))
	assert.Equal(t, "", ConvertProfileFields([]string{"bogus"}))
}
