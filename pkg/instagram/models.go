package instagram

// Raw envelope shapes for the loosely-typed Instagram responses. Decoding
// happens here once, into explicit structs; the mappers in profile.go,
// posts.go and comments.go turn these into domain models with per-field
// defaulting, so the rest of the system never touches the raw payloads.

// profileEnvelope wraps the profile query response. The user object arrives
// under data.user or data.xdt_user_by_clid.user depending on the surface.
type profileEnvelope struct {
	Data struct {
		User          *rawUser `json:"user"`
		XDTUserByCLID *struct {
			User *rawUser `json:"user"`
		} `json:"xdt_user_by_clid"`
	} `json:"data"`
	Status string `json:"status"`
}

// user returns whichever user object the envelope carries, or nil
func (e *profileEnvelope) user() *rawUser {
	if e.Data.User != nil {
		return e.Data.User
	}
	if e.Data.XDTUserByCLID != nil {
		return e.Data.XDTUserByCLID.User
	}
	return nil
}

type rawUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	MediaCount     int    `json:"media_count"`
	Biography      string `json:"biography"`
	ProfilePicURL  string `json:"profile_pic_url"`
}

// timelineEnvelope wraps one timeline page. The connection arrives under a
// generated key or, on older surfaces, under data.user.edge_owner_to_timeline_media.
type timelineEnvelope struct {
	Data struct {
		Connection *TimelineConnection `json:"xdt_api__v1__feed__user_timeline_graphql_connection"`
		User       *struct {
			Timeline *TimelineConnection `json:"edge_owner_to_timeline_media"`
		} `json:"user"`
	} `json:"data"`
}

// connection returns whichever timeline connection the envelope carries, or nil
func (e *timelineEnvelope) connection() *TimelineConnection {
	if e.Data.Connection != nil {
		return e.Data.Connection
	}
	if e.Data.User != nil {
		return e.Data.User.Timeline
	}
	return nil
}

// TimelineConnection is one page of timeline edges plus continuation metadata
type TimelineConnection struct {
	Edges    []TimelineEdge `json:"edges"`
	PageInfo PageInfo       `json:"page_info"`
}

// TimelineEdge wraps a single timeline node. Node may be null; such edges
// are skipped during mapping.
type TimelineEdge struct {
	Node *TimelineNode `json:"node"`
}

// TimelineNode is the raw shape of one post
type TimelineNode struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Caption *struct {
		Text string `json:"text"`
	} `json:"caption"`
	ImageVersions2 *struct {
		Candidates []struct {
			URL string `json:"url"`
		} `json:"candidates"`
	} `json:"image_versions2"`
	TakenAt      int64 `json:"taken_at"`
	LikeCount    int   `json:"like_count"`
	CommentCount int   `json:"comment_count"`
}

// PageInfo is the forward-cursor continuation metadata for timeline pages
type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

// commentsPayload is one comment page. Continuation uses a running
// minimum-id boundary instead of a forward cursor: next_min_id absent or
// empty ends the sequence.
type commentsPayload struct {
	Comments  []rawComment `json:"comments"`
	NextMinID string       `json:"next_min_id"`
}

type rawComment struct {
	Text string `json:"text"`
	User *struct {
		Username string `json:"username"`
	} `json:"user"`
	CreatedAt        int64 `json:"created_at"`
	CommentLikeCount int   `json:"comment_like_count"`
}
