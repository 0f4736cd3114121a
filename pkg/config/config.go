package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the harvester
type Config struct {
	// Instagram credentials and request identity
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Harvest bounds and pacing
	Harvest HarvestConfig `yaml:"harvest" json:"harvest"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Persistence settings
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Export settings
	Export ExportConfig `yaml:"export" json:"export"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	SessionID string `yaml:"session_id" json:"session_id"`
	CSRFToken string `yaml:"csrf_token" json:"csrf_token"`
	DSUserID  string `yaml:"ds_user_id" json:"ds_user_id"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// HarvestConfig holds harvest bounds and the inter-page delay
type HarvestConfig struct {
	PostLimit      int           `yaml:"post_limit" json:"post_limit"`
	CommentLimit   int           `yaml:"comment_limit" json:"comment_limit"`
	PageDelay      time.Duration `yaml:"page_delay" json:"page_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// harvestConfigYAML is the file representation of HarvestConfig; durations
// are Go duration strings ("800ms", "30s") rather than raw nanoseconds
type harvestConfigYAML struct {
	PostLimit      *int    `yaml:"post_limit"`
	CommentLimit   *int    `yaml:"comment_limit"`
	PageDelay      *string `yaml:"page_delay"`
	RequestTimeout *string `yaml:"request_timeout"`
}

// UnmarshalYAML decodes duration fields from duration strings. Absent fields
// keep their current (default) values.
func (h *HarvestConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw harvestConfigYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.PostLimit != nil {
		h.PostLimit = *raw.PostLimit
	}
	if raw.CommentLimit != nil {
		h.CommentLimit = *raw.CommentLimit
	}
	if raw.PageDelay != nil {
		d, err := time.ParseDuration(*raw.PageDelay)
		if err != nil {
			return fmt.Errorf("invalid page_delay: %w", err)
		}
		h.PageDelay = d
	}
	if raw.RequestTimeout != nil {
		d, err := time.ParseDuration(*raw.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
		h.RequestTimeout = d
	}

	return nil
}

// MarshalYAML encodes duration fields as duration strings
func (h HarvestConfig) MarshalYAML() (interface{}, error) {
	pageDelay := h.PageDelay.String()
	requestTimeout := h.RequestTimeout.String()
	return harvestConfigYAML{
		PostLimit:      &h.PostLimit,
		CommentLimit:   &h.CommentLimit,
		PageDelay:      &pageDelay,
		RequestTimeout: &requestTimeout,
	}, nil
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// StorageConfig holds persistence configuration
type StorageConfig struct {
	File string `yaml:"file" json:"file"`
}

// ExportConfig holds export defaults
type ExportConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	Format    string `yaml:"format" json:"format"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		Harvest: HarvestConfig{
			PostLimit:      20,
			CommentLimit:   20,
			PageDelay:      800 * time.Millisecond,
			RequestTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Storage: StorageConfig{
			File: defaultStorageFile(),
		},
		Export: ExportConfig{
			Directory: ".",
			Format:    "xlsx",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultStorageFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scraped_profiles.json"
	}
	return filepath.Join(home, ".config", "igharvest", "scraped_profiles.json")
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv("IGHARVEST_SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken := os.Getenv("IGHARVEST_CSRF_TOKEN"); csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if dsUserID := os.Getenv("IGHARVEST_DS_USER_ID"); dsUserID != "" {
		c.Instagram.DSUserID = dsUserID
	}
	if userAgent := os.Getenv("IGHARVEST_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	if rpm := os.Getenv("IGHARVEST_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if delay := os.Getenv("IGHARVEST_PAGE_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			c.Harvest.PageDelay = d
		}
	}

	if file := os.Getenv("IGHARVEST_STORAGE_FILE"); file != "" {
		c.Storage.File = file
	}

	if logLevel := os.Getenv("IGHARVEST_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".igharvest.yaml",
		".igharvest.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igharvest", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igharvest", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igharvest.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Harvest.PostLimit < 0 {
		errs = append(errs, errors.New("post limit cannot be negative"))
	}
	if c.Harvest.CommentLimit < 0 {
		errs = append(errs, errors.New("comment limit cannot be negative"))
	}
	if c.Harvest.PageDelay < 0 {
		errs = append(errs, errors.New("page delay cannot be negative"))
	}
	if c.Harvest.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Storage.File == "" {
		errs = append(errs, errors.New("storage file is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	validFormats := map[string]bool{
		"json": true, "csv": true, "xlsx": true,
	}
	if !validFormats[strings.ToLower(c.Export.Format)] {
		errs = append(errs, errors.New("invalid export format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken, ok := flags["csrf-token"].(string); ok && csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if postLimit, ok := flags["posts"].(int); ok && postLimit > 0 {
		c.Harvest.PostLimit = postLimit
	}
	if commentLimit, ok := flags["comments"].(int); ok && commentLimit > 0 {
		c.Harvest.CommentLimit = commentLimit
	}
	if storageFile, ok := flags["storage"].(string); ok && storageFile != "" {
		c.Storage.File = storageFile
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igharvest.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
