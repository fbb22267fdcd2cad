package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Spotify API credentials and endpoints
	Spotify SpotifyConfig

	Search  SearchConfig
	HTTP    HTTPConfig
	Output  OutputConfig
	History HistoryConfig
	Log     LogConfig
}

// SpotifyConfig holds Spotify specific configuration
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIURL       string
}

// SearchConfig controls the track search and enrichment
type SearchConfig struct {
	// Maximum number of tracks to fetch (1-50)
	// Default: 5
	Limit int

	// Artist searched when none is given on the command line
	DefaultArtist string

	// Enrich tracks concurrently instead of one after another
	Concurrent bool
}

// HTTPConfig controls outgoing requests
type HTTPConfig struct {
	// Deadline for each request
	Timeout time.Duration

	// Attempts per request; 1 disables retries
	MaxAttempts int
}

// OutputConfig controls the console report and the CSV export
type OutputConfig struct {
	Dir     string
	Width   int // 0 disables truncation
	Compact bool
	Color   bool
}

// HistoryConfig controls the optional run history database
type HistoryConfig struct {
	Enabled bool
	Path    string
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string
	File  string
}

// Options changes where Load looks for configuration
type Options struct {
	ConfigFile string // Explicit config file; skips the search paths
	EnvFile    string // dotenv file loaded into the environment (default ".env")
}

// ErrMissingCredentials is returned by Validate when the client ID or
// secret is not configured.
var ErrMissingCredentials = errors.New("spotify client ID and secret are required")

// Load reads configuration from file and environment
func Load(opts Options) (*Config, error) {
	// Values from the dotenv file never override the real environment
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(getConfigDir())
		v.AddConfigPath(".")
	}

	// Set defaults
	v.SetDefault("spotify.token_url", "https://accounts.spotify.com/api/token")
	v.SetDefault("spotify.api_url", "https://api.spotify.com/v1/")
	v.SetDefault("search.limit", 5)
	v.SetDefault("search.default_artist", "Sid Sriram")
	v.SetDefault("search.concurrent", false)
	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("http.max_attempts", 1)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.width", 0)
	v.SetDefault("output.compact", false)
	v.SetDefault("output.color", true)
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", filepath.Join(GetDataDir(), "history.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	if err := v.ReadInConfig(); err != nil {
		// A missing file in the search paths is fine; an explicit or broken one is not
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Read from environment variables
	v.SetEnvPrefix("TOPTRACKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names, checked in order after the prefixed one
	_ = v.BindEnv("spotify.client_id", "TOPTRACKS_SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_ID", "client_id")
	_ = v.BindEnv("spotify.client_secret", "TOPTRACKS_SPOTIFY_CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET", "client_secret")

	cfg := &Config{
		Spotify: SpotifyConfig{
			ClientID:     strings.TrimSpace(v.GetString("spotify.client_id")),
			ClientSecret: strings.TrimSpace(v.GetString("spotify.client_secret")),
			TokenURL:     v.GetString("spotify.token_url"),
			APIURL:       v.GetString("spotify.api_url"),
		},
		Search: SearchConfig{
			Limit:         v.GetInt("search.limit"),
			DefaultArtist: v.GetString("search.default_artist"),
			Concurrent:    v.GetBool("search.concurrent"),
		},
		HTTP: HTTPConfig{
			Timeout:     v.GetDuration("http.timeout"),
			MaxAttempts: v.GetInt("http.max_attempts"),
		},
		Output: OutputConfig{
			Dir:     v.GetString("output.dir"),
			Width:   v.GetInt("output.width"),
			Compact: v.GetBool("output.compact"),
			Color:   v.GetBool("output.color"),
		},
		History: HistoryConfig{
			Enabled: v.GetBool("history.enabled"),
			Path:    v.GetString("history.path"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
	}

	return cfg, nil
}

// Validate checks the values a search run depends on
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return ErrMissingCredentials
	}
	if c.Search.Limit < 1 || c.Search.Limit > 50 {
		return fmt.Errorf("search.limit must be between 1 and 50 (got %d)", c.Search.Limit)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive (got %s)", c.HTTP.Timeout)
	}
	return nil
}

// MaskedClientID returns the client ID with all but the last four
// characters hidden, for use in logs.
func (s SpotifyConfig) MaskedClientID() string {
	if len(s.ClientID) <= 4 {
		return strings.Repeat("*", len(s.ClientID))
	}
	return strings.Repeat("*", len(s.ClientID)-4) + s.ClientID[len(s.ClientID)-4:]
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "toptracks")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// GetDataDir returns the directory for local data such as the history database
func GetDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share", "toptracks")
}

// Save writes the Spotify credentials to the config file in dir.
// An empty dir selects the default configuration directory.
func (c *Config) Save(dir string) (string, error) {
	v := viper.New()

	if dir == "" {
		dir = getConfigDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	configFile := filepath.Join(dir, "config.yaml")

	// Keep whatever else the file already holds
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read existing config: %w", err)
	}

	v.Set("spotify.client_id", c.Spotify.ClientID)
	v.Set("spotify.client_secret", c.Spotify.ClientSecret)

	if err := v.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}

	// The file holds a secret
	if err := os.Chmod(configFile, 0600); err != nil {
		return "", fmt.Errorf("failed to restrict config permissions: %w", err)
	}

	return configFile, nil
}
