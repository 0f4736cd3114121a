// Package paginate implements the cursor-walking primitive shared by every
// paginated Instagram resource. The two cursor schemes in use (an opaque
// forward "after" cursor for timeline posts, a running minimum-id boundary
// for comments) both reduce to the page step handing back the token for the
// next request, so a single walker serves both.
package paginate

import "time"

// Page is the contract every paginated fetch step must return. An empty
// NextCursor means the sequence has no further pages.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// FetchFunc fetches one page. The first call receives an empty cursor; each
// subsequent call receives the NextCursor of the previous page.
type FetchFunc[T any] func(cursor string) (Page[T], error)

// Collect walks pages until targetCount items are accumulated, the sequence
// ends, or a fetch fails. A fetch failure never discards pages already
// fetched: Collect returns the items accumulated so far.
//
// interPageDelay is waited between successive fetches, never before the
// first. It is part of the upstream contract, not an optimization: skipping
// it risks throttling.
func Collect[T any](fetch FetchFunc[T], targetCount int, interPageDelay time.Duration) []T {
	if targetCount <= 0 {
		return nil
	}

	var items []T
	cursor := ""

	for {
		page, err := fetch(cursor)
		if err != nil {
			// Partial results beat none; the caller sees what was fetched.
			return items
		}

		items = append(items, page.Items...)
		if len(items) >= targetCount {
			return items[:targetCount]
		}

		if !page.HasMore || page.NextCursor == "" {
			return items
		}

		cursor = page.NextCursor
		time.Sleep(interPageDelay)
	}
}
