package instagram

import (
	"regexp"
	"strings"
	"time"

	"igharvest/pkg/models"
	"igharvest/pkg/paginate"
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractHashtags collects every #word token from a caption in appearance
// order and joins them with ", ". Captions without hashtags yield "".
func ExtractHashtags(caption string) string {
	matches := hashtagPattern.FindAllString(caption, -1)
	return strings.Join(matches, ", ")
}

// FormatTimestamp renders a unix-seconds timestamp as "YYYY-MM-DD HH:MM:SS"
// in UTC. Zero and negative values yield "".
func FormatTimestamp(unixSeconds int64) string {
	if unixSeconds <= 0 {
		return ""
	}
	return time.Unix(unixSeconds, 0).UTC().Format("2006-01-02 15:04:05")
}

// FetchPosts fetches up to count posts from a user's timeline, walking
// forward-cursor pages of at most MaxPostsPerPage. A page failure after the
// first returns the posts already fetched.
func (c *Client) FetchPosts(username string, count int) ([]models.Post, error) {
	if count <= 0 {
		return nil, nil
	}

	fetched := 0
	var firstErr error

	step := func(cursor string) (paginate.Page[models.Post], error) {
		pageSize := count - fetched
		if pageSize > MaxPostsPerPage {
			pageSize = MaxPostsPerPage
		}

		url, err := TimelineURL(c.baseURL, username, pageSize, cursor)
		if err != nil {
			firstErr = err
			return paginate.Page[models.Post]{}, err
		}

		var envelope timelineEnvelope
		if err := c.GetJSON(url, &envelope); err != nil {
			firstErr = err
			return paginate.Page[models.Post]{}, err
		}

		connection := envelope.connection()
		if connection == nil || len(connection.Edges) == 0 {
			// No edges means the timeline is exhausted regardless of what
			// page_info claims.
			return paginate.Page[models.Post]{}, nil
		}

		posts := mapTimelinePosts(connection.Edges)
		fetched += len(posts)

		return paginate.Page[models.Post]{
			Items:      posts,
			NextCursor: connection.PageInfo.EndCursor,
			HasMore:    connection.PageInfo.HasNextPage,
		}, nil
	}

	posts := paginate.Collect(step, count, c.pageDelay)

	if len(posts) == 0 && firstErr != nil {
		return nil, firstErr
	}

	c.logger.InfoWithFields("fetched posts", map[string]interface{}{
		"username":  username,
		"requested": count,
		"fetched":   len(posts),
	})

	return posts, nil
}

// mapTimelinePosts converts raw timeline edges to domain posts, skipping
// edges with null nodes
func mapTimelinePosts(edges []TimelineEdge) []models.Post {
	posts := make([]models.Post, 0, len(edges))

	for _, edge := range edges {
		node := edge.Node
		if node == nil {
			continue
		}

		caption := ""
		if node.Caption != nil {
			caption = node.Caption.Text
		}

		imageURL := ""
		if node.ImageVersions2 != nil && len(node.ImageVersions2.Candidates) > 0 {
			imageURL = node.ImageVersions2.Candidates[0].URL
		}

		posts = append(posts, models.Post{
			ID:           node.ID,
			Shortcode:    node.Code,
			Caption:      caption,
			Tags:         ExtractHashtags(caption),
			Link:         PostURL(node.Code),
			UploadedAt:   FormatTimestamp(node.TakenAt),
			LikeCount:    node.LikeCount,
			CommentCount: node.CommentCount,
			ImageURL:     imageURL,
		})
	}

	return posts
}
