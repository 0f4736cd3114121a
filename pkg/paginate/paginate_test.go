package paginate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// scriptedFetch returns the given pages in order and counts calls
func scriptedFetch(t *testing.T, pages []Page[string], fail map[int]bool) (FetchFunc[string], *int) {
	t.Helper()
	calls := 0
	fetch := func(cursor string) (Page[string], error) {
		idx := calls
		calls++
		if fail[idx] {
			return Page[string]{}, errors.New("transport failure")
		}
		if idx >= len(pages) {
			t.Fatalf("unexpected fetch call %d with cursor %q", idx+1, cursor)
		}
		return pages[idx], nil
	}
	return fetch, &calls
}

func TestCollectTruncatesToTargetCount(t *testing.T) {
	fetch, calls := scriptedFetch(t, []Page[string]{
		{Items: []string{"a", "b", "c"}, NextCursor: "x", HasMore: true},
		{Items: []string{"d", "e"}, NextCursor: "", HasMore: false},
	}, nil)

	got := Collect(fetch, 4, 0)

	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
	assert.Equal(t, 2, *calls)
}

func TestCollectStopsWhenHasMoreFalse(t *testing.T) {
	fetch, calls := scriptedFetch(t, []Page[string]{
		{Items: []string{"a", "b"}, NextCursor: "x", HasMore: false},
	}, nil)

	got := Collect(fetch, 10, 0)

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, *calls, "no fetch may follow a page reporting hasMore=false")
}

func TestCollectStopsOnMissingCursor(t *testing.T) {
	fetch, calls := scriptedFetch(t, []Page[string]{
		{Items: []string{"a"}, NextCursor: "", HasMore: true},
	}, nil)

	got := Collect(fetch, 10, 0)

	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 1, *calls)
}

func TestCollectReturnsPartialOnFailure(t *testing.T) {
	fetch, calls := scriptedFetch(t, []Page[string]{
		{Items: []string{"a", "b"}, NextCursor: "x", HasMore: true},
	}, map[int]bool{1: true})

	got := Collect(fetch, 10, 0)

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, *calls)
}

func TestCollectFailureOnFirstPageYieldsEmpty(t *testing.T) {
	fetch, _ := scriptedFetch(t, nil, map[int]bool{0: true})
	assert.Empty(t, Collect(fetch, 5, 0))
}

func TestCollectZeroOrNegativeTargetSkipsFetching(t *testing.T) {
	fetch := func(cursor string) (Page[string], error) {
		t.Fatal("fetch must not be called for targetCount <= 0")
		return Page[string]{}, nil
	}

	assert.Nil(t, Collect(fetch, 0, 0))
	assert.Nil(t, Collect(fetch, -3, 0))
}

func TestCollectPassesCursorsForward(t *testing.T) {
	var cursors []string
	fetch := func(cursor string) (Page[string], error) {
		cursors = append(cursors, cursor)
		switch cursor {
		case "":
			return Page[string]{Items: []string{"a"}, NextCursor: "c1", HasMore: true}, nil
		case "c1":
			return Page[string]{Items: []string{"b"}, NextCursor: "c2", HasMore: true}, nil
		default:
			return Page[string]{Items: []string{"c"}, HasMore: false}, nil
		}
	}

	got := Collect(fetch, 10, 0)

	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, []string{"", "c1", "c2"}, cursors)
}

func TestCollectExactTargetOnPageBoundary(t *testing.T) {
	fetch, calls := scriptedFetch(t, []Page[string]{
		{Items: []string{"a", "b"}, NextCursor: "x", HasMore: true},
	}, nil)

	got := Collect(fetch, 2, 0)

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, *calls, "target reached on the page boundary must not fetch again")
}

func TestCollectWaitsBetweenPages(t *testing.T) {
	fetch, _ := scriptedFetch(t, []Page[string]{
		{Items: []string{"a"}, NextCursor: "x", HasMore: true},
		{Items: []string{"b"}, NextCursor: "", HasMore: false},
	}, nil)

	start := time.Now()
	Collect(fetch, 10, 50*time.Millisecond)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
