package oyoutube

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/dunice-shabanov/passport-youtube/lib/oauth"
	"github.com/itchyny/gojq"
)

var (
	ErrMissingEntry = errors.New("youtube profile response has no entry object")
	ErrMissingID    = errors.New("youtube profile entry has no id")
)

// userFeedPrefix is stripped from the id of the entry to obtain the user id.
const userFeedPrefix = "http://gdata.youtube.com/feeds/api/users/"

// Profile is the normalized profile of a YouTube user.
//
// Optional fields missing from the response are left empty.
type Profile struct {
	oauth.CommonProfile

	// ChannelID is the id of the channel of the user, "UC" followed by the user id.
	ChannelID        string                 `json:"channelId"`
	Published        string                 `json:"published"`
	Updated          string                 `json:"updated"`
	Title            string                 `json:"title"`
	Content          string                 `json:"content"`
	GooglePlusUserID string                 `json:"googlePlusUserId"`
	Location         string                 `json:"location"`
	Statistics       map[string]interface{} `json:"statistics"`
}

// Keys of the entry copied into typed fields, and omitted from Profile.JSON.
var promotedKeys = map[string]bool{
	"xmlns":               true,
	"xmlns$gd":            true,
	"xmlns$yt":            true,
	"xmlns$media":         true,
	"yt$googlePlusUserId": true,
	"yt$location":         true,
	"yt$statistics":       true,
	"yt$username":         true,
}

var (
	idPath               = mustCompile(`.id["$t"]`)
	titlePath            = mustCompile(`.title["$t"]`)
	publishedPath        = mustCompile(`.published["$t"]`)
	updatedPath          = mustCompile(`.updated["$t"]`)
	contentPath          = mustCompile(`.content["$t"]`)
	googlePlusUserIDPath = mustCompile(`.["yt$googlePlusUserId"]["$t"]`)
	locationPath         = mustCompile(`.["yt$location"]["$t"]`)
	usernamePath         = mustCompile(`.["yt$username"]["$t"]`)
	statisticsPath       = mustCompile(`.["yt$statistics"]`)
	lastNamePath         = mustCompile(`.["yt$lastName"]`)
	lastNameValuePath    = mustCompile(`.["yt$lastName"]["$t"]`)
	firstNamePath        = mustCompile(`.["yt$firstName"]`)
	firstNameValuePath   = mustCompile(`.["yt$firstName"]["$t"]`)
)

func mustCompile(src string) *gojq.Code {
	query, err := gojq.Parse(src)
	if err != nil {
		panic(err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		panic(err)
	}
	return code
}

// getOrDefault returns the first value path yields on document, or def if
// the path does not exist, cannot be evaluated, or yields a value of another type.
func getOrDefault[T any](document map[string]interface{}, path *gojq.Code, def T) T {
	value, ok := path.Run(document).Next()
	if !ok {
		return def
	}
	if typed, ok := value.(T); ok {
		return typed
	}
	return def
}

// ParseProfile normalizes the response of the YouTube user feed.
//
// body must be a JSON document with an "entry" object, whose id is
// a string. All other fields are optional.
//
// The user id is the entry id without the user feed prefix. An id that is
// empty, or that consists of the prefix alone, fails with ErrMissingID, so
// a returned profile always has a non empty ID.
func ParseProfile(body []byte) (*Profile, error) {
	var document map[string]interface{}
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, err
	}
	entry, ok := document["entry"].(map[string]interface{})
	if !ok {
		return nil, ErrMissingEntry
	}

	rawID := getOrDefault(entry, idPath, "")
	id := strings.TrimPrefix(rawID, userFeedPrefix)
	if id == "" {
		return nil, ErrMissingID
	}

	title := getOrDefault(entry, titlePath, "")
	profile := &Profile{
		CommonProfile: oauth.CommonProfile{
			Provider:    Name,
			ID:          id,
			DisplayName: title,
			Username:    getOrDefault(entry, usernamePath, ""),
			Name:        oauth.Name{GivenName: title},
			Raw:         string(body),
			JSON:        withoutPromoted(entry),
		},
		ChannelID:        "UC" + id,
		Published:        getOrDefault(entry, publishedPath, ""),
		Updated:          getOrDefault(entry, updatedPath, ""),
		Title:            title,
		Content:          getOrDefault(entry, contentPath, ""),
		GooglePlusUserID: getOrDefault(entry, googlePlusUserIDPath, ""),
		Location:         getOrDefault(entry, locationPath, ""),
		Statistics:       getOrDefault(entry, statisticsPath, map[string]interface{}{}),
	}

	if getOrDefault[interface{}](entry, lastNamePath, nil) != nil && getOrDefault[interface{}](entry, firstNamePath, nil) != nil {
		profile.Name = oauth.Name{
			FamilyName: getOrDefault(entry, lastNameValuePath, ""),
			GivenName:  getOrDefault(entry, firstNameValuePath, ""),
		}
	}
	return profile, nil
}

// withoutPromoted returns a copy of entry without the keys in promotedKeys.
func withoutPromoted(entry map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(entry))
	for key, value := range entry {
		if !promotedKeys[key] {
			result[key] = value
		}
	}
	return result
}
