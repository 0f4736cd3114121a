package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igharvest/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igharvest configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created in the current directory as '.igharvest.yaml' unless
a different path is given with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration merged from all sources.

Credential values are masked.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax errors and invalid values.`,
	Run:   runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# igharvest configuration file
#
# Environment variables prefixed with IGHARVEST_ override these values,
# e.g. IGHARVEST_SESSION_ID, IGHARVEST_CSRF_TOKEN, IGHARVEST_DS_USER_ID.

# Instagram credentials (prefer 'igharvest auth login' over storing them here)
instagram:
  session_id: ""
  csrf_token: ""
  ds_user_id: ""
  user_agent: ""

# Harvest bounds and pacing
harvest:
  # Maximum posts per harvest
  post_limit: 20
  # Maximum comments per post (0 skips comments)
  comment_limit: 20
  # Delay between successive page fetches
  page_delay: 800ms
  # Per-request timeout
  request_timeout: 30s

# Rate limiting
rate_limit:
  requests_per_minute: 60

# Persistence
storage:
  # Harvest records are stored as a JSON list in this file
  file: ""

# Export defaults
export:
  directory: "."
  # json, csv or xlsx
  format: "xlsx"

# Logging
logging:
  # debug, info, warn or error
  level: "info"
  # Optional log file; empty logs to stderr only
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".igharvest.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(os.Stderr, "Configuration file already exists: %s\n", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		fatal("failed to write configuration file", err)
	}

	fmt.Println("Created configuration file:", configPath)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(nil)
	if err != nil {
		fatal("failed to load configuration", err)
	}

	masked := *cfg
	masked.Instagram.SessionID = maskValue(cfg.Instagram.SessionID)
	masked.Instagram.CSRFToken = maskValue(cfg.Instagram.CSRFToken)

	data, err := yaml.Marshal(&masked)
	if err != nil {
		fatal("failed to render configuration", err)
	}

	fmt.Print(string(data))
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		fatal("configuration file is invalid", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("configuration validation failed", err)
	}

	fmt.Println("Configuration is valid.")
}

func maskValue(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
