package oyoutube

import (
	"strings"

	"github.com/dunice-shabanov/passport-youtube/lib/oauth"
)

// AuthorizationParams maps the login options understood by the Google
// authorization endpoint to their query parameters.
//
// Only the options that are set produce a parameter. Values are passed
// through unchecked.
func AuthorizationParams(options oauth.AuthorizationOptions) map[string]string {
	params := map[string]string{}
	if options.AccessType != "" {
		params["access_type"] = options.AccessType
	}
	if options.ApprovalPrompt != "" {
		params["approval_prompt"] = options.ApprovalPrompt
	}
	if options.Prompt != "" {
		params["prompt"] = options.Prompt
	}
	if options.LoginHint != "" {
		params["login_hint"] = options.LoginHint
	}
	if options.UserID != "" {
		// Undocumented, behaves like login_hint.
		params["user_id"] = options.UserID
	}
	if options.HostedDomain != "" {
		params["hd"] = options.HostedDomain
	} else if options.HD != "" {
		params["hd"] = options.HD
	}
	return params
}

var profileFields = map[string][]string{
	"id":          {"id"},
	"username":    {"username"},
	"displayName": {"name"},
	"name":        {"last_name", "first_name"},
}

// ConvertProfileFields turns the names of the normalized profile fields into
// the comma separated list of fields the provider understands.
//
// Unknown names are skipped.
func ConvertProfileFields(fields []string) string {
	var result []string
	for _, field := range fields {
		result = append(result, profileFields[field]...)
	}
	return strings.Join(result, ",")
}
