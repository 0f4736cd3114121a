package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"igharvest/pkg/storage"
)

// listHarvestsCmd represents the list command
var listHarvestsCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored harvests",
	Long: `List every stored harvest with its key, post count and comment count.

Keys are passed to 'igharvest export --key' and 'igharvest remove'.`,
	Run: runListHarvests,
}

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <key>...",
	Short: "Remove stored harvests",
	Long:  `Remove one or more stored harvests by key. Keys are shown by 'igharvest list'.`,
	Example: `  igharvest remove alice-2026-09-01T12:00:00Z

  # Remove several at once
  igharvest remove alice-2026-09-01T12:00:00Z bob-2026-08-30T09:15:00Z`,
	Args: cobra.MinimumNArgs(1),
	Run:  runRemove,
}

func init() {
	rootCmd.AddCommand(listHarvestsCmd)
	rootCmd.AddCommand(removeCmd)
}

func runListHarvests(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(nil)
	if err != nil {
		fatal("failed to load configuration", err)
	}

	store, err := storage.NewStore(cfg.Storage.File)
	if err != nil {
		fatal("failed to open storage", err)
	}

	records, err := store.Load()
	if err != nil {
		fatal("failed to load stored harvests", err)
	}

	if len(records) == 0 {
		fmt.Println("No stored harvests. Run 'igharvest harvest <user_id>' first.")
		return
	}

	fmt.Printf("%d stored harvest(s) in %s\n\n", len(records), store.Path())
	for _, record := range records {
		comments := 0
		for _, post := range record.Posts {
			comments += len(post.Comments)
		}

		fmt.Printf("  @%s  (%d followers)\n", record.Username, record.Followers)
		fmt.Printf("    posts: %d, comments: %d\n", len(record.Posts), comments)
		fmt.Printf("    scraped: %s\n", record.ScrapedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("    key: %s\n\n", record.Key())
	}
}

func runRemove(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(nil)
	if err != nil {
		fatal("failed to load configuration", err)
	}

	store, err := storage.NewStore(cfg.Storage.File)
	if err != nil {
		fatal("failed to open storage", err)
	}

	removed, err := store.Remove(args...)
	if err != nil {
		fatal("failed to remove harvests", err)
	}

	if removed == 0 {
		fmt.Println("No matching harvests found. Use 'igharvest list' to see stored keys.")
		return
	}
	fmt.Printf("Removed %d harvest(s)\n", removed)
}
