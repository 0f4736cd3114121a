// Package export flattens harvested profiles into tabular rows and
// serializes them to JSON, CSV or XLSX.
package export

import (
	"fmt"
	"time"

	"igharvest/pkg/models"
)

// DataType selects which projection of the harvested tree to export
type DataType string

const (
	DataTypeProfile DataType = "profile"
	DataTypePost    DataType = "post"
	DataTypeComment DataType = "comment"
)

// exportPostCap bounds the post and comment projections to the first posts
// of each record. Exports stay digestible even for prolific accounts.
const exportPostCap = 12

// Table is an ordered set of rows sharing one column layout. Columns carries
// the output order; map iteration order never leaks into serialized output.
type Table struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Flatten projects harvest records into rows of the requested type. The
// input records are never mutated.
func Flatten(records []models.HarvestRecord, dataType DataType) (Table, error) {
	switch dataType {
	case DataTypeProfile:
		return FlattenProfiles(records), nil
	case DataTypePost:
		return FlattenPosts(records), nil
	case DataTypeComment:
		return FlattenComments(records), nil
	default:
		return Table{}, fmt.Errorf("unknown data type %q", dataType)
	}
}

// FlattenProfiles produces one row per harvest record
func FlattenProfiles(records []models.HarvestRecord) Table {
	table := Table{
		Columns: []string{"username", "fullName", "bio", "followers", "following", "scrapedAt"},
	}

	for _, record := range records {
		table.Rows = append(table.Rows, map[string]interface{}{
			"username":  record.Username,
			"fullName":  record.FullName,
			"bio":       record.Bio,
			"followers": record.Followers,
			"following": record.Following,
			"scrapedAt": formatScrapedAt(record.ScrapedAt),
		})
	}

	return table
}

// FlattenPosts produces one row per post, capped per record
func FlattenPosts(records []models.HarvestRecord) Table {
	table := Table{
		Columns: []string{"username", "fullName", "post_id", "caption", "likes", "comments_count", "post_url", "scrapedAt"},
	}

	for _, record := range records {
		for _, post := range cappedPosts(record.Posts) {
			table.Rows = append(table.Rows, map[string]interface{}{
				"username":       record.Username,
				"fullName":       record.FullName,
				"post_id":        post.ID,
				"caption":        post.Caption,
				"likes":          post.LikeCount,
				"comments_count": post.CommentCount,
				"post_url":       postExportURL(post.Shortcode),
				"scrapedAt":      formatScrapedAt(record.ScrapedAt),
			})
		}
	}

	return table
}

// FlattenComments produces one row per comment across each record's capped
// posts. Posts without comments contribute no rows.
func FlattenComments(records []models.HarvestRecord) Table {
	table := Table{
		Columns: []string{"username", "fullName", "post_id", "post_url", "commenter", "comment_text", "comment_like", "scrapedAt"},
	}

	for _, record := range records {
		for _, post := range cappedPosts(record.Posts) {
			for _, comment := range post.Comments {
				table.Rows = append(table.Rows, map[string]interface{}{
					"username":     record.Username,
					"fullName":     record.FullName,
					"post_id":      post.ID,
					"post_url":     postExportURL(post.Shortcode),
					"commenter":    comment.Username,
					"comment_text": comment.Text,
					"comment_like": comment.LikeCount,
					"scrapedAt":    formatScrapedAt(record.ScrapedAt),
				})
			}
		}
	}

	return table
}

func cappedPosts(posts []models.Post) []models.Post {
	if len(posts) > exportPostCap {
		return posts[:exportPostCap]
	}
	return posts
}

func postExportURL(shortcode string) string {
	return fmt.Sprintf("https://instagram.com/p/%s", shortcode)
}

func formatScrapedAt(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
