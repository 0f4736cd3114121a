package instagram

import (
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// GraphQLEndpoint serves doc_id based queries
	GraphQLEndpoint = "/graphql/query"

	// ProfileDocID is the doc_id for the profile query
	ProfileDocID = "24098904923132686"

	// TimelineDocID is the doc_id for the user timeline query
	TimelineDocID = "24388485070759223"

	// MaxPostsPerPage is the API-imposed page-size ceiling for timeline pages.
	// Larger requests are split into multiple pages of at most this size.
	MaxPostsPerPage = 12
)

// profileVariables is the variables payload for the profile query
type profileVariables struct {
	ID            string `json:"id"`
	RenderSurface string `json:"render_surface"`
}

// timelineVariables is the variables payload for the timeline query
type timelineVariables struct {
	Data            timelineData `json:"data"`
	Username        string       `json:"username"`
	After           string       `json:"after,omitempty"`
	RelayIsLoggedIn bool         `json:"__relay_internal__pv__PolarisIsLoggedInrelayprovider"`
	RelayShareSheet bool         `json:"__relay_internal__pv__PolarisShareSheetV3relayprovider"`
}

type timelineData struct {
	Count                         int  `json:"count"`
	IncludeReelMediaSeenTimestamp bool `json:"include_reel_media_seen_timestamp"`
	IncludeRelationshipInfo       bool `json:"include_relationship_info"`
	LatestBestiesReelMedia        bool `json:"latest_besties_reel_media"`
	LatestReelMedia               bool `json:"latest_reel_media"`
}

// graphQLURL constructs a doc_id query URL with a JSON-stringified variables object
func graphQLURL(base, docID string, variables interface{}) (string, error) {
	encoded, err := json.Marshal(variables)
	if err != nil {
		return "", fmt.Errorf("failed to encode variables: %w", err)
	}

	params := url.Values{}
	params.Set("doc_id", docID)
	params.Set("variables", string(encoded))

	return fmt.Sprintf("%s%s?%s", base, GraphQLEndpoint, params.Encode()), nil
}

// ProfileURL constructs the URL for fetching a user's profile by user ID
func ProfileURL(base, userID string) (string, error) {
	return graphQLURL(base, ProfileDocID, profileVariables{
		ID:            userID,
		RenderSurface: "PROFILE",
	})
}

// TimelineURL constructs the URL for one timeline page
func TimelineURL(base, username string, count int, after string) (string, error) {
	if count <= 0 || count > MaxPostsPerPage {
		count = MaxPostsPerPage
	}

	return graphQLURL(base, TimelineDocID, timelineVariables{
		Data: timelineData{
			Count:                         count,
			IncludeReelMediaSeenTimestamp: true,
			IncludeRelationshipInfo:       true,
			LatestBestiesReelMedia:        true,
			LatestReelMedia:               true,
		},
		Username:        username,
		After:           after,
		RelayIsLoggedIn: true,
		RelayShareSheet: true,
	})
}

// CommentsURL constructs the URL for one comment page. minID is the running
// minimum-id boundary; empty for the first page.
func CommentsURL(base, postID, minID string) string {
	params := url.Values{}
	params.Set("can_support_threading", "true")
	params.Set("permalink_enabled", "false")
	if minID != "" {
		params.Set("min_id", minID)
	}

	return fmt.Sprintf("%s/api/v1/media/%s/comments/?%s", base, postID, params.Encode())
}

// PostURL constructs the canonical URL for a post
func PostURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s/", BaseURL, shortcode)
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}

	// Instagram usernames can only contain letters, numbers, periods, and underscores
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

// SanitizeUsername removes any invalid characters from a username
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}

	// Remove @ symbol if present at the beginning
	if username[0] == '@' {
		username = username[1:]
	}

	// Remove any trailing slashes or spaces
	for len(username) > 0 && (username[len(username)-1] == '/' || username[len(username)-1] == ' ') {
		username = username[:len(username)-1]
	}

	return username
}
