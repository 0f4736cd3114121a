package instagram

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name     string
		caption  string
		expected string
	}{
		{name: "no hashtags", caption: "just a caption", expected: ""},
		{name: "single hashtag", caption: "sunset #nofilter", expected: "#nofilter"},
		{name: "multiple in order", caption: "#first then #second and #third", expected: "#first, #second, #third"},
		{name: "adjacent hashtags", caption: "#one#two", expected: "#one, #two"},
		{name: "underscores and digits", caption: "#tag_1 #2024", expected: "#tag_1, #2024"},
		{name: "empty caption", caption: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractHashtags(tt.caption))
		})
	}
}

func TestExtractHashtagsIdempotent(t *testing.T) {
	// The derived ", "-joined tag string is a fixed point: extracting from
	// it again yields the identical string.
	captions := []string{
		"sunset #nofilter #beach",
		"#one#two",
		"prefix #tag_1 middle #2024 suffix",
		"no tags here",
	}

	for _, caption := range captions {
		tags := ExtractHashtags(caption)
		assert.Equal(t, tags, ExtractHashtags(tags))
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "2023-11-14 22:13:20", FormatTimestamp(1700000000))
	assert.Equal(t, "", FormatTimestamp(0))
	assert.Equal(t, "", FormatTimestamp(-1))
}

// timelineVariablesSent mirrors the variables payload for decoding what the
// client actually sent
type timelineVariablesSent struct {
	Data struct {
		Count int `json:"count"`
	} `json:"data"`
	Username string `json:"username"`
	After    string `json:"after"`
}

func timelineNode(id string, caption string) map[string]interface{} {
	return map[string]interface{}{
		"id":            id,
		"code":          "SC" + id,
		"caption":       map[string]interface{}{"text": caption},
		"taken_at":      1700000000,
		"like_count":    10,
		"comment_count": 2,
		"image_versions2": map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"url": "https://cdn.example/" + id + ".jpg"},
			},
		},
	}
}

func timelinePage(nodes []map[string]interface{}, hasNext bool, endCursor string) map[string]interface{} {
	edges := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		edges = append(edges, map[string]interface{}{"node": n})
	}

	return map[string]interface{}{
		"data": map[string]interface{}{
			"xdt_api__v1__feed__user_timeline_graphql_connection": map[string]interface{}{
				"edges": edges,
				"page_info": map[string]interface{}{
					"has_next_page": hasNext,
					"end_cursor":    endCursor,
				},
			},
		},
	}
}

func TestFetchPostsSinglePage(t *testing.T) {
	var sent timelineVariablesSent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, GraphQLEndpoint, r.URL.Path)
		require.Equal(t, TimelineDocID, r.URL.Query().Get("doc_id"))
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("variables")), &sent))

		json.NewEncoder(w).Encode(timelinePage([]map[string]interface{}{
			timelineNode("1", "hello #world"),
			timelineNode("2", "no tags here"),
		}, false, ""))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	posts, err := client.FetchPosts("testuser", 5)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "testuser", sent.Username)
	assert.Equal(t, 5, sent.Data.Count)
	assert.Equal(t, "", sent.After)

	assert.Equal(t, "1", posts[0].ID)
	assert.Equal(t, "SC1", posts[0].Shortcode)
	assert.Equal(t, "hello #world", posts[0].Caption)
	assert.Equal(t, "#world", posts[0].Tags)
	assert.Equal(t, "https://www.instagram.com/p/SC1/", posts[0].Link)
	assert.Equal(t, "2023-11-14 22:13:20", posts[0].UploadedAt)
	assert.Equal(t, 10, posts[0].LikeCount)
	assert.Equal(t, 2, posts[0].CommentCount)
	assert.Equal(t, "https://cdn.example/1.jpg", posts[0].ImageURL)
	assert.Equal(t, "", posts[1].Tags)
}

func TestFetchPostsTruncatesAcrossPages(t *testing.T) {
	var requests []timelineVariablesSent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sent timelineVariablesSent
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("variables")), &sent))
		requests = append(requests, sent)

		switch sent.After {
		case "":
			json.NewEncoder(w).Encode(timelinePage([]map[string]interface{}{
				timelineNode("a", ""), timelineNode("b", ""), timelineNode("c", ""),
			}, true, "cursor-1"))
		case "cursor-1":
			json.NewEncoder(w).Encode(timelinePage([]map[string]interface{}{
				timelineNode("d", ""), timelineNode("e", ""),
			}, true, "cursor-2"))
		default:
			t.Errorf("unexpected cursor %q", sent.After)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	posts, err := client.FetchPosts("testuser", 4)
	require.NoError(t, err)
	require.Len(t, posts, 4)

	assert.Equal(t, "a", posts[0].ID)
	assert.Equal(t, "d", posts[3].ID)
	require.Len(t, requests, 2, "target reached mid-page must stop fetching")
	assert.Equal(t, "cursor-1", requests[1].After)
}

func TestFetchPostsCapsPageSize(t *testing.T) {
	var counts []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sent timelineVariablesSent
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("variables")), &sent))
		counts = append(counts, sent.Data.Count)

		nodes := make([]map[string]interface{}, sent.Data.Count)
		for i := range nodes {
			nodes[i] = timelineNode(fmt.Sprintf("p%d-%d", len(counts), i), "")
		}
		json.NewEncoder(w).Encode(timelinePage(nodes, true, fmt.Sprintf("cursor-%d", len(counts))))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	posts, err := client.FetchPosts("testuser", 15)
	require.NoError(t, err)
	assert.Len(t, posts, 15)
	assert.Equal(t, []int{12, 3}, counts)
}

func TestFetchPostsStopsOnEmptyPage(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(timelinePage(nil, true, "cursor-ignored"))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	posts, err := client.FetchPosts("testuser", 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, 1, calls)
}

func TestFetchPostsLegacyConnectionKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"user": map[string]interface{}{
					"edge_owner_to_timeline_media": map[string]interface{}{
						"edges": []map[string]interface{}{
							{"node": timelineNode("legacy", "")},
						},
						"page_info": map[string]interface{}{
							"has_next_page": false,
							"end_cursor":    "",
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	posts, err := client.FetchPosts("testuser", 5)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "legacy", posts[0].ID)
}

func TestFetchPostsSkipsNullNodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"xdt_api__v1__feed__user_timeline_graphql_connection": map[string]interface{}{
					"edges": []map[string]interface{}{
						{"node": timelineNode("1", "")},
						{"node": nil},
						{"node": timelineNode("2", "")},
					},
					"page_info": map[string]interface{}{
						"has_next_page": false,
					},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	posts, err := client.FetchPosts("testuser", 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "2", posts[1].ID)
}

func TestFetchPostsPartialOnPageFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			json.NewEncoder(w).Encode(timelinePage([]map[string]interface{}{
				timelineNode("1", ""), timelineNode("2", ""),
			}, true, "cursor-1"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	posts, err := client.FetchPosts("testuser", 10)
	require.NoError(t, err, "pages already fetched must survive a later failure")
	assert.Len(t, posts, 2)
}

func TestFetchPostsFirstPageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	posts, err := client.FetchPosts("testuser", 10)
	assert.Error(t, err)
	assert.Empty(t, posts)
}

func TestFetchPostsZeroCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a zero count")
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	posts, err := client.FetchPosts("testuser", 0)
	require.NoError(t, err)
	assert.Nil(t, posts)
}
