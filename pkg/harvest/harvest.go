package harvest

import (
	"fmt"
	"time"

	"igharvest/pkg/logger"
	"igharvest/pkg/models"
)

// Client defines the Instagram API operations the harvester needs
type Client interface {
	FetchProfile(userID string) (*models.Profile, error)
	FetchPosts(username string, count int) ([]models.Post, error)
	FetchComments(postID string, limit int) ([]models.Comment, error)
}

// Store persists completed harvests
type Store interface {
	Append(record models.HarvestRecord) error
}

// Options controls the scope of a single harvest
type Options struct {
	// UserID identifies the profile to harvest
	UserID string

	// PostCount is the maximum number of timeline posts to fetch
	PostCount int

	// CommentLimit is the maximum number of comments to fetch per post.
	// Zero skips the comment stage entirely.
	CommentLimit int
}

// Harvester runs the profile, posts and comments stages against an Instagram
// client and commits the result to a store
type Harvester struct {
	client Client
	store  Store
	logger logger.Logger
}

// New creates a new Harvester instance
func New(client Client, store Store, log logger.Logger) *Harvester {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Harvester{
		client: client,
		store:  store,
		logger: log,
	}
}

// Harvest fetches a profile with its posts and comments. The returned profile
// carries whatever was fetched before any non-fatal failure; only a profile
// failure returns an error.
func (h *Harvester) Harvest(opts Options) (*models.Profile, error) {
	if opts.UserID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	start := time.Now()
	h.logger.InfoWithFields("starting harvest", map[string]interface{}{
		"user_id":       opts.UserID,
		"post_count":    opts.PostCount,
		"comment_limit": opts.CommentLimit,
	})

	profile, err := h.client.FetchProfile(opts.UserID)
	if err != nil {
		h.logger.ErrorWithFields("profile fetch failed", map[string]interface{}{
			"user_id": opts.UserID,
			"error":   err.Error(),
		})
		return nil, err
	}

	if opts.PostCount > 0 {
		posts, err := h.client.FetchPosts(profile.Username, opts.PostCount)
		if err != nil {
			h.logger.WarnWithFields("post fetch failed, keeping bare profile", map[string]interface{}{
				"username": profile.Username,
				"error":    err.Error(),
			})
		}
		profile.Posts = posts
	}

	if opts.CommentLimit > 0 {
		h.attachComments(profile, opts.CommentLimit)
	}

	h.logger.InfoWithFields("harvest complete", map[string]interface{}{
		"username": profile.Username,
		"posts":    len(profile.Posts),
		"duration": time.Since(start),
	})

	return profile, nil
}

// attachComments fetches comments for each post in turn. A failure on one
// post leaves its Comments nil and moves on.
func (h *Harvester) attachComments(profile *models.Profile, limit int) {
	for i := range profile.Posts {
		post := &profile.Posts[i]

		comments, err := h.client.FetchComments(post.ID, limit)
		if err != nil {
			h.logger.WarnWithFields("comment fetch failed for post", map[string]interface{}{
				"post_id":   post.ID,
				"shortcode": post.Shortcode,
				"error":     err.Error(),
			})
			continue
		}
		post.Comments = comments
	}
}

// HarvestAndCommit runs a harvest and appends the stamped record to the
// store. The commit timestamp is assigned here, once, in UTC.
func (h *Harvester) HarvestAndCommit(opts Options) (*models.HarvestRecord, error) {
	profile, err := h.Harvest(opts)
	if err != nil {
		return nil, err
	}

	record := models.HarvestRecord{
		Profile:   *profile,
		ScrapedAt: time.Now().UTC(),
	}

	if h.store != nil {
		if err := h.store.Append(record); err != nil {
			h.logger.ErrorWithFields("failed to persist harvest", map[string]interface{}{
				"username": record.Username,
				"error":    err.Error(),
			})
			return nil, fmt.Errorf("failed to persist harvest: %w", err)
		}
	}

	return &record, nil
}
