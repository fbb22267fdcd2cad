/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jfmyers9/toptracks/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Global flags
var (
	configFile string
	envFile    string
	logLevel   string
	logFile    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "toptracks",
	Short: "Export an artist's top Spotify tracks to CSV",
	Long: `toptracks looks up an artist's top tracks on Spotify.

Each track is enriched with the artist's genres and the track's audio
features (tempo, key, mode, loudness), printed as a report and exported
to <artist>_top_tracks.csv.

Spotify client credentials are read from SPOTIFY_CLIENT_ID and
SPOTIFY_CLIENT_SECRET, a .env file, or the config file written by
'toptracks auth'.

Run without a subcommand, it searches the configured default artist.`,
	Args:          cobra.NoArgs,
	RunE:          runSearch,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/toptracks/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with credentials")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
}

// loadConfig loads configuration, applying the global flags on top
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	return cfg, nil
}

// parseLevel maps a level name to a zerolog level, defaulting to info
func parseLevel(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logFile, logLevel string) zerolog.Logger {
	level := parseLevel(logLevel)

	// Files are rotated; stderr gets pretty console output
	var output io.Writer
	if logFile != "" {
		output = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// apiLogger adapts a zerolog.Logger to the Spotify client's Logger
type apiLogger struct {
	logger zerolog.Logger
}

func (l apiLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
