package instagram

import (
	"fmt"

	"igharvest/pkg/errors"
	"igharvest/pkg/models"
)

// FetchProfile fetches a user's public profile by user ID
func (c *Client) FetchProfile(userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, errors.New(errors.ErrorTypeUnknown, "user ID is required", 0)
	}

	url, err := ProfileURL(c.baseURL, userID)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to build profile URL: %v", err), 0)
	}

	var envelope profileEnvelope
	if err := c.GetJSON(url, &envelope); err != nil {
		return nil, err
	}

	user := envelope.user()
	if user == nil {
		c.logger.WarnWithFields("profile query returned no user", map[string]interface{}{
			"user_id": userID,
			"status":  envelope.Status,
		})
		return nil, errors.New(errors.ErrorTypeNotFound, fmt.Sprintf("profile not found for user ID %s", userID), 0)
	}

	profile := &models.Profile{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Followers:  user.FollowerCount,
		Following:  user.FollowingCount,
		PostCount:  user.MediaCount,
		Bio:        user.Biography,
		ProfilePic: user.ProfilePicURL,
	}
	if profile.ID == "" {
		profile.ID = userID
	}

	c.logger.InfoWithFields("fetched profile", map[string]interface{}{
		"user_id":   profile.ID,
		"username":  profile.Username,
		"followers": profile.Followers,
	})

	return profile, nil
}
