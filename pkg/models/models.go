package models

import "time"

// Profile is a harvested Instagram profile. Posts is populated only after a
// harvest; it stays nil for a bare profile fetch.
type Profile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"fullName"`
	Followers  int    `json:"followers"`
	Following  int    `json:"following"`
	Bio        string `json:"bio,omitempty"`
	ProfilePic string `json:"profilePic,omitempty"`
	PostCount  int    `json:"post_count"`
	Posts      []Post `json:"posts,omitempty"`
}

// Post is a single timeline post. Tags is derived from the caption at fetch
// time: every #word token in appearance order, joined with ", ".
type Post struct {
	ID           string    `json:"id"`
	Shortcode    string    `json:"shortcode"`
	Caption      string    `json:"caption"`
	Tags         string    `json:"tags"`
	Link         string    `json:"link"`
	UploadedAt   string    `json:"uploaded_at"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	ImageURL     string    `json:"image_url"`
	Comments     []Comment `json:"comments,omitempty"`
}

// Comment is a single comment on a post. Comments carry no stable identity;
// ordering is the API return order.
type Comment struct {
	Text      string `json:"text"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
	LikeCount int    `json:"likeCount"`
}

// HarvestRecord is the persisted unit: a fully harvested profile plus the
// commit timestamp. ScrapedAt is assigned once and never mutated; re-scraping
// the same username appends a new record rather than merging.
type HarvestRecord struct {
	Profile
	ScrapedAt time.Time `json:"scrapedAt"`
}

// Key distinguishes records of the same username scraped at different times
func (r HarvestRecord) Key() string {
	return r.Username + "-" + r.ScrapedAt.UTC().Format(time.RFC3339)
}
