package instagram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentJSON(text, username string, createdAt int64, likes int) map[string]interface{} {
	return map[string]interface{}{
		"text":               text,
		"user":               map[string]interface{}{"username": username},
		"created_at":         createdAt,
		"comment_like_count": likes,
	}
}

func TestFetchCommentsSinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/media/media123/comments/", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("can_support_threading"))
		require.Equal(t, "false", r.URL.Query().Get("permalink_enabled"))
		require.False(t, r.URL.Query().Has("min_id"), "first page must not carry min_id")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"comments": []map[string]interface{}{
				commentJSON("nice shot", "alice", 1700000000, 3),
				commentJSON("wow", "bob", 1700000100, 0),
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	comments, err := client.FetchComments("media123", 10)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, "nice shot", comments[0].Text)
	assert.Equal(t, "alice", comments[0].Username)
	assert.Equal(t, "2023-11-14 22:13:20", comments[0].CreatedAt)
	assert.Equal(t, 3, comments[0].LikeCount)
	assert.Equal(t, "bob", comments[1].Username)
}

func TestFetchCommentsWalksMinIDPages(t *testing.T) {
	var minIDs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		minID := r.URL.Query().Get("min_id")
		minIDs = append(minIDs, minID)

		switch minID {
		case "":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"comments": []map[string]interface{}{
					commentJSON("one", "alice", 1700000000, 0),
					commentJSON("two", "bob", 1700000001, 0),
				},
				"next_min_id": "boundary-1",
			})
		case "boundary-1":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"comments": []map[string]interface{}{
					commentJSON("three", "carol", 1700000002, 0),
				},
			})
		default:
			t.Errorf("unexpected min_id %q", minID)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	comments, err := client.FetchComments("media123", 10)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []string{"", "boundary-1"}, minIDs)
	assert.Equal(t, "three", comments[2].Text)
}

func TestFetchCommentsTruncatesToLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"comments": []map[string]interface{}{
				commentJSON("one", "alice", 1700000000, 0),
				commentJSON("two", "bob", 1700000001, 0),
				commentJSON("three", "carol", 1700000002, 0),
			},
			"next_min_id": "boundary-1",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	comments, err := client.FetchComments("media123", 2)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, 1, calls)
}

func TestFetchCommentsMissingUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"comments": []map[string]interface{}{
				{"text": "orphan", "created_at": 1700000000},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	comments, err := client.FetchComments("media123", 5)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "orphan", comments[0].Text)
	assert.Equal(t, "unknown", comments[0].Username)
}

func TestFetchCommentsPartialOnPageFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"comments": []map[string]interface{}{
					commentJSON("one", "alice", 1700000000, 0),
				},
				"next_min_id": "boundary-1",
			})
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	comments, err := client.FetchComments("media123", 10)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestFetchCommentsFirstPageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	comments, err := client.FetchComments("media123", 10)
	assert.Error(t, err)
	assert.Empty(t, comments)
}

func TestFetchCommentsZeroLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a zero limit")
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	comments, err := client.FetchComments("media123", 0)
	require.NoError(t, err)
	assert.Nil(t, comments)
}
