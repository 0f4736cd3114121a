package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"igharvest/pkg/export"
	"igharvest/pkg/logger"
	"igharvest/pkg/models"
	"igharvest/pkg/storage"
)

var (
	// Export command flags
	exportFormat string
	exportDir    string
	exportKeys   []string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <profile|post|comment>",
	Short: "Export stored harvests as flat tables",
	Long: `Export stored harvests as a flat table in JSON, CSV or XLSX.

Three projections are available:
  profile   one row per harvest
  post      one row per post (first 12 posts of each harvest)
  comment   one row per comment on those posts

By default every stored harvest is exported. Use --key to restrict the
export to specific records; keys are shown by 'igharvest list'.`,
	Example: `  # Export all harvested posts as XLSX
  igharvest export post

  # Export profiles as CSV into ./out
  igharvest export profile --format csv --output ./out

  # Export comments of one specific harvest
  igharvest export comment --key alice-2026-09-01T12:00:00Z`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"profile", "post", "comment"},
	Run:       runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "output format: json, csv or xlsx (default from config)")
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", "", "output directory (default from config)")
	exportCmd.Flags().StringArrayVar(&exportKeys, "key", nil, "export only the records with these keys (repeatable)")
}

func runExport(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(nil)
	if err != nil {
		fatal("failed to load configuration", err)
	}

	format := cfg.Export.Format
	if exportFormat != "" {
		format = exportFormat
	}
	dir := cfg.Export.Directory
	if exportDir != "" {
		dir = exportDir
	}

	log := logger.GetLogger()

	store, err := storage.NewStore(cfg.Storage.File)
	if err != nil {
		fatal("failed to open storage", err)
	}

	records, err := store.Load()
	if err != nil {
		fatal("failed to load stored harvests", err)
	}
	records = filterByKeys(records, exportKeys)

	table, err := export.Flatten(records, export.DataType(args[0]))
	if err != nil {
		fatal("invalid data type", err)
	}

	artifact, err := export.Serialize(table, export.DataType(args[0]), export.Format(format))
	if err != nil {
		log.WithError(err).WithField("data_type", args[0]).Error("export failed")
		fatal("export failed", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		fatal("failed to create output directory", err)
	}

	path := filepath.Join(dir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
		fatal("failed to write export file", err)
	}

	fmt.Printf("Exported %d rows to %s\n", len(table.Rows), path)
}

func filterByKeys(records []models.HarvestRecord, keys []string) []models.HarvestRecord {
	if len(keys) == 0 {
		return records
	}

	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		wanted[key] = true
	}

	var filtered []models.HarvestRecord
	for _, record := range records {
		if wanted[record.Key()] {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
