package export

import (
	"fmt"
	"testing"
	"time"

	"igharvest/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(postCount int) models.HarvestRecord {
	posts := make([]models.Post, postCount)
	for i := range posts {
		posts[i] = models.Post{
			ID:           fmt.Sprintf("post-%d", i+1),
			Shortcode:    fmt.Sprintf("SC%d", i+1),
			Caption:      fmt.Sprintf("caption %d", i+1),
			LikeCount:    i * 10,
			CommentCount: i,
		}
	}

	return models.HarvestRecord{
		Profile: models.Profile{
			Username:  "alice",
			FullName:  "Alice A",
			Bio:       "hello",
			Followers: 100,
			Following: 50,
			Posts:     posts,
		},
		ScrapedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFlattenProfiles(t *testing.T) {
	table := FlattenProfiles([]models.HarvestRecord{testRecord(3)})

	assert.Equal(t, []string{"username", "fullName", "bio", "followers", "following", "scrapedAt"}, table.Columns)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	assert.Equal(t, "alice", row["username"])
	assert.Equal(t, "Alice A", row["fullName"])
	assert.Equal(t, "hello", row["bio"])
	assert.Equal(t, 100, row["followers"])
	assert.Equal(t, 50, row["following"])
	assert.Equal(t, "2026-09-01T12:00:00Z", row["scrapedAt"])
}

func TestFlattenPostsCapsPerRecord(t *testing.T) {
	record := testRecord(15)
	table := FlattenPosts([]models.HarvestRecord{record})

	require.Len(t, table.Rows, 12, "a record with 15 posts must export 12 rows")
	assert.Equal(t, "post-1", table.Rows[0]["post_id"])
	assert.Equal(t, "post-12", table.Rows[11]["post_id"])
	assert.Equal(t, "https://instagram.com/p/SC1", table.Rows[0]["post_url"])

	assert.Len(t, record.Posts, 15, "flattening must not mutate the input")
}

func TestFlattenPostsMultipleRecords(t *testing.T) {
	table := FlattenPosts([]models.HarvestRecord{testRecord(2), testRecord(3)})
	assert.Len(t, table.Rows, 5)
}

func TestFlattenPostsNoPosts(t *testing.T) {
	table := FlattenPosts([]models.HarvestRecord{testRecord(0)})
	assert.Empty(t, table.Rows)
	assert.NotEmpty(t, table.Columns, "column layout survives an empty projection")
}

func TestFlattenComments(t *testing.T) {
	record := testRecord(2)
	record.Posts[0].Comments = []models.Comment{
		{Text: "first", Username: "bob", LikeCount: 3},
		{Text: "second", Username: "carol", LikeCount: 0},
	}

	table := FlattenComments([]models.HarvestRecord{record})

	require.Len(t, table.Rows, 2, "posts without comments contribute no rows")

	row := table.Rows[0]
	assert.Equal(t, "alice", row["username"])
	assert.Equal(t, "post-1", row["post_id"])
	assert.Equal(t, "https://instagram.com/p/SC1", row["post_url"])
	assert.Equal(t, "bob", row["commenter"])
	assert.Equal(t, "first", row["comment_text"])
	assert.Equal(t, 3, row["comment_like"])
	assert.Equal(t, "carol", table.Rows[1]["commenter"])
}

func TestFlattenCommentsRespectsPostCap(t *testing.T) {
	record := testRecord(15)
	for i := range record.Posts {
		record.Posts[i].Comments = []models.Comment{{Text: "c", Username: "u"}}
	}

	table := FlattenComments([]models.HarvestRecord{record})
	assert.Len(t, table.Rows, 12, "comments beyond the post cap must not export")
}

func TestFlattenDispatch(t *testing.T) {
	records := []models.HarvestRecord{testRecord(1)}

	for _, dataType := range []DataType{DataTypeProfile, DataTypePost, DataTypeComment} {
		_, err := Flatten(records, dataType)
		assert.NoError(t, err, "data type %q", dataType)
	}

	_, err := Flatten(records, DataType("bogus"))
	assert.Error(t, err)
}
