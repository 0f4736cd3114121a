package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"igharvest/pkg/auth"
	"igharvest/pkg/config"
	"igharvest/pkg/harvest"
	"igharvest/pkg/instagram"
	"igharvest/pkg/logger"
	"igharvest/pkg/ratelimit"
	"igharvest/pkg/storage"
)

var (
	// Harvest command flags
	harvestSelf  bool
	postLimit    int
	commentLimit int
	rateLimit    int
	accountName  string
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest [user_id]",
	Short: "Harvest a profile with its posts and comments",
	Long: `Harvest a public Instagram profile by numeric user ID.

The harvest fetches the profile, up to --posts timeline posts, and up to
--comments comments per post, one request at a time. The result is stored
locally; use 'igharvest export' to turn stored harvests into files.

With --self the user ID is taken from the ds_user_id of the configured
credentials, harvesting the logged-in account's own profile.`,
	Example: `  # Harvest a profile by user ID
  igharvest harvest 123456789

  # Harvest your own profile
  igharvest harvest --self

  # Fetch more posts but skip comments
  igharvest harvest 123456789 --posts 48 --comments 0

  # Use a specific stored account
  igharvest harvest 123456789 --account myaccount`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)

	harvestCmd.Flags().BoolVar(&harvestSelf, "self", false, "harvest the logged-in account's own profile")
	harvestCmd.Flags().IntVar(&postLimit, "posts", 20, "maximum number of posts to fetch")
	harvestCmd.Flags().IntVar(&commentLimit, "comments", 20, "maximum number of comments per post (0 skips comments)")
	harvestCmd.Flags().IntVar(&rateLimit, "rate-limit", 60, "requests per minute")
	harvestCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
}

func runHarvest(cmd *cobra.Command, args []string) {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("posts") {
		flags["posts"] = postLimit
	}
	if cmd.Flags().Changed("comments") {
		// Zero is meaningful here, MergeCommandLineFlags skips it
		flags["comments"] = commentLimit
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		fatal("failed to load configuration", err)
	}
	if cmd.Flags().Changed("comments") {
		cfg.Harvest.CommentLimit = commentLimit
	}
	if cmd.Flags().Changed("rate-limit") {
		cfg.RateLimit.RequestsPerMinute = rateLimit
	}

	log := logger.GetLogger()

	provider, account := resolveCredentials(cfg, log)

	userID := ""
	if len(args) > 0 {
		userID = args[0]
	}
	if harvestSelf {
		if userID != "" {
			fatal("--self and an explicit user ID are mutually exclusive", nil)
		}
		userID = selfUserID(cfg, account)
		if userID == "" {
			fatal("--self requires a ds_user_id in the stored account or IGHARVEST_DS_USER_ID", nil)
		}
	}
	if userID == "" {
		fatal("a user ID is required (or pass --self)", nil)
	}

	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)

	client := instagram.NewClient(cfg.Harvest.RequestTimeout, provider, limiter, log)
	client.SetPageDelay(cfg.Harvest.PageDelay)

	store, err := storage.NewStore(cfg.Storage.File)
	if err != nil {
		fatal("failed to open storage", err)
	}

	harvester := harvest.New(client, store, log)

	record, err := harvester.HarvestAndCommit(harvest.Options{
		UserID:       userID,
		PostCount:    cfg.Harvest.PostLimit,
		CommentLimit: cfg.Harvest.CommentLimit,
	})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("harvest failed")
		fatal("harvest failed", err)
	}

	comments := 0
	for _, post := range record.Posts {
		comments += len(post.Comments)
	}

	fmt.Printf("Harvested @%s: %d posts, %d comments\n", record.Username, len(record.Posts), comments)
	fmt.Printf("Stored in %s (key: %s)\n", store.Path(), record.Key())
}

// resolveCredentials picks a credential source in precedence order: named
// account, then config/env values, then any stored account.
func resolveCredentials(cfg *config.Config, log logger.Logger) (auth.Provider, *auth.Account) {
	manager, err := auth.NewManager()
	if err != nil {
		fatal("failed to initialize credential manager", err)
	}

	if accountName != "" {
		account, err := manager.Retrieve(accountName)
		if err != nil {
			fatal(fmt.Sprintf("account %q not found, use 'igharvest auth list' to see stored accounts", accountName), nil)
		}
		log.WithField("account", account.Username).Info("using stored credentials")
		return auth.StaticProvider{Account: account}, account
	}

	if cfg.Instagram.SessionID != "" && cfg.Instagram.CSRFToken != "" {
		account := &auth.Account{
			Username:  "default",
			SessionID: cfg.Instagram.SessionID,
			CSRFToken: cfg.Instagram.CSRFToken,
			DSUserID:  cfg.Instagram.DSUserID,
			UserAgent: cfg.Instagram.UserAgent,
		}
		log.Info("using credentials from configuration")
		return auth.StaticProvider{Account: account}, account
	}

	account, err := manager.RetrieveDefault()
	if err != nil {
		fmt.Println("No Instagram credentials found.")
		fmt.Println("\nTo store credentials securely, run:")
		fmt.Println("  igharvest auth login")
		fmt.Println("\nOr set environment variables:")
		fmt.Println("  export IGHARVEST_SESSION_ID=your_session_id")
		fmt.Println("  export IGHARVEST_CSRF_TOKEN=your_csrf_token")
		fmt.Println("  export IGHARVEST_DS_USER_ID=your_user_id")
		fatal("no credentials available", nil)
	}

	log.WithField("account", account.Username).Info("using default stored account")
	return auth.StaticProvider{Account: account}, account
}

func selfUserID(cfg *config.Config, account *auth.Account) string {
	if account != nil && account.DSUserID != "" {
		return account.DSUserID
	}
	return cfg.Instagram.DSUserID
}
