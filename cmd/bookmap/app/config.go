package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/kv"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Open Library
	BaseURL     string
	CoversURL   string
	HTTPTimeout time.Duration

	// Local state
	StoreBackend string
	StorePath    string

	// Change feeds
	PollInterval   time.Duration
	FeedLimit      int
	NotifyCooldown time.Duration

	// Search
	SearchLimit    int
	SearchCacheTTL time.Duration

	// Local API
	ServerAddr string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.bookmap.yaml, or configFile when given)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix("BOOKMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".bookmap")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "failed to read config file", err)
		}
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),

		BaseURL:     v.GetString("base_url"),
		CoversURL:   v.GetString("covers_url"),
		HTTPTimeout: v.GetDuration("http_timeout"),

		StoreBackend: v.GetString("store_backend"),
		StorePath:    v.GetString("store_path"),

		PollInterval:   v.GetDuration("poll_interval"),
		FeedLimit:      v.GetInt("feed_limit"),
		NotifyCooldown: v.GetDuration("notify_cooldown"),

		SearchLimit:    v.GetInt("search_limit"),
		SearchCacheTTL: v.GetDuration("search_cache_ttl"),

		ServerAddr: v.GetString("server_addr"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.StorePath == "" {
		config.StorePath = defaultStorePath(config.StoreBackend)
	}
	path, err := expandHome(config.StorePath)
	if err != nil {
		return nil, errors.NewConfigError("store_path", "failed to expand home directory", err)
	}
	config.StorePath = path

	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", constants.OpenLibraryURL)
	v.SetDefault("covers_url", constants.CoversURL)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("store_backend", string(kv.BackendFile))
	v.SetDefault("poll_interval", constants.DefaultPollInterval)
	v.SetDefault("feed_limit", constants.DefaultFeedLimit)
	v.SetDefault("notify_cooldown", constants.DefaultNotifyCooldown)
	v.SetDefault("search_limit", constants.DefaultSearchLimit)
	v.SetDefault("search_cache_ttl", constants.SearchCacheTTL)
	v.SetDefault("server_addr", constants.DefaultServerAddr)
}

// Validate checks values that options would otherwise reject late.
func (c *Config) Validate() error {
	if _, err := kv.ParseBackend(c.StoreBackend); err != nil {
		return err
	}
	if c.SearchLimit < 1 || c.SearchLimit > constants.MaxSearchLimit {
		return errors.NewValidationError("search_limit", c.SearchLimit, "must be between 1 and 100")
	}
	if c.PollInterval <= 0 {
		return errors.NewValidationError("poll_interval", c.PollInterval, "must be positive")
	}
	if c.FeedLimit < 1 {
		return errors.NewValidationError("feed_limit", c.FeedLimit, "must be positive")
	}
	return nil
}

// UpdateFromFlags applies parsed flag values, which take precedence over
// config file and environment values.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, output, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if output != "" {
		c.Output = output
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set are not overridden, so .env.local must come first.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func defaultStorePath(backend string) string {
	name := constants.DefaultStoreFile
	if b, _ := kv.ParseBackend(backend); b == kv.BackendSQLite {
		name = constants.DefaultDBFile
	}
	return filepath.Join(constants.DefaultDataDir, name)
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
