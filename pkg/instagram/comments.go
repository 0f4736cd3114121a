package instagram

import (
	"igharvest/pkg/models"
	"igharvest/pkg/paginate"
)

// FetchComments fetches up to limit comments for a post, walking min_id
// boundary pages. A page failure after the first returns the comments
// already fetched.
func (c *Client) FetchComments(postID string, limit int) ([]models.Comment, error) {
	if limit <= 0 {
		return nil, nil
	}

	var firstErr error

	step := func(minID string) (paginate.Page[models.Comment], error) {
		url := CommentsURL(c.baseURL, postID, minID)

		var payload commentsPayload
		if err := c.GetJSON(url, &payload); err != nil {
			firstErr = err
			return paginate.Page[models.Comment]{}, err
		}

		comments := make([]models.Comment, 0, len(payload.Comments))
		for _, raw := range payload.Comments {
			username := "unknown"
			if raw.User != nil && raw.User.Username != "" {
				username = raw.User.Username
			}

			comments = append(comments, models.Comment{
				Text:      raw.Text,
				Username:  username,
				CreatedAt: FormatTimestamp(raw.CreatedAt),
				LikeCount: raw.CommentLikeCount,
			})
		}

		return paginate.Page[models.Comment]{
			Items:      comments,
			NextCursor: payload.NextMinID,
			HasMore:    payload.NextMinID != "",
		}, nil
	}

	comments := paginate.Collect(step, limit, c.pageDelay)

	if len(comments) == 0 && firstErr != nil {
		return nil, firstErr
	}

	c.logger.DebugWithFields("fetched comments", map[string]interface{}{
		"post_id":   postID,
		"requested": limit,
		"fetched":   len(comments),
	})

	return comments, nil
}
