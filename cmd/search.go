package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jfmyers9/toptracks/internal/catalog"
	"github.com/jfmyers9/toptracks/internal/config"
	"github.com/jfmyers9/toptracks/internal/history"
	"github.com/jfmyers9/toptracks/internal/report"
	"github.com/jfmyers9/toptracks/internal/runner"
	"github.com/jfmyers9/toptracks/pkg/spotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	searchLimit      int
	searchOutputDir  string
	searchConcurrent bool
	searchTimeout    time.Duration
	searchWidth      int
	searchCompact    bool
	searchNoColor    bool
	searchHistory    bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [artist]",
	Short: "Report and export an artist's top tracks",
	Long: `Search Spotify for an artist's top tracks and export them to CSV.

For every track the report shows the album, popularity, release date,
the artist's genres and the track's audio features. Lookups that fail
are shown as "Genre not found" or "N/A" instead of dropping the track.

The export is written to <artist>_top_tracks.csv in the output
directory, replacing any earlier export for the same artist.

With no artist, the configured default artist is searched.`,
	Example: `  toptracks search "Sid Sriram"
  toptracks search Anirudh Ravichander --limit 10 --compact
  toptracks search --output-dir ./exports --history`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Number of tracks to fetch, 1-50 (default: 5)")
	searchCmd.Flags().StringVarP(&searchOutputDir, "output-dir", "o", "", "Directory for the CSV export (default: current directory)")
	searchCmd.Flags().BoolVar(&searchConcurrent, "concurrent", false, "Enrich tracks in parallel")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 0, "Timeout for each API request (default: 10s)")
	searchCmd.Flags().IntVarP(&searchWidth, "width", "w", 0, "Truncate report values to this display width (0 = no limit)")
	searchCmd.Flags().BoolVar(&searchCompact, "compact", false, "Print one line per track")
	searchCmd.Flags().BoolVar(&searchNoColor, "no-color", false, "Disable colored output")
	searchCmd.Flags().BoolVar(&searchHistory, "history", false, "Record this run in the history database")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySearchFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			return fmt.Errorf("%w. Set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET or run 'toptracks auth'", err)
		}
		return err
	}

	logger := setupLogger(cfg.Log.File, cfg.Log.Level)

	artist := strings.TrimSpace(strings.Join(args, " "))
	if artist == "" {
		artist = cfg.Search.DefaultArtist
	}
	if artist == "" {
		return fmt.Errorf("no artist given and search.default_artist is empty")
	}

	logger.Debug().
		Str("client_id", cfg.Spotify.MaskedClientID()).
		Int("limit", cfg.Search.Limit).
		Bool("concurrent", cfg.Search.Concurrent).
		Msg("Configuration loaded")

	client, err := newSpotifyClient(cfg, logger)
	if err != nil {
		return err
	}

	var recorder runner.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()
		recorder = store
	}

	r := runner.New(
		runner.Config{OutputDir: cfg.Output.Dir},
		catalog.New(client, catalog.Options{
			Limit:      cfg.Search.Limit,
			Concurrent: cfg.Search.Concurrent,
		}, logger),
		report.NewPrinter(cmd.OutOrStdout(), report.PrinterOptions{
			Width:   cfg.Output.Width,
			Compact: cfg.Output.Compact,
			Color:   cfg.Output.Color,
		}),
		recorder,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := r.Run(ctx, artist); err != nil {
		return err
	}
	return nil
}

// applySearchFlags overrides configuration with flags set on the command line
func applySearchFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("limit") {
		cfg.Search.Limit = searchLimit
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = searchOutputDir
	}
	if flags.Changed("concurrent") {
		cfg.Search.Concurrent = searchConcurrent
	}
	if flags.Changed("timeout") {
		cfg.HTTP.Timeout = searchTimeout
	}
	if flags.Changed("width") {
		cfg.Output.Width = searchWidth
	}
	if flags.Changed("compact") {
		cfg.Output.Compact = searchCompact
	}
	if flags.Changed("no-color") {
		cfg.Output.Color = !searchNoColor
	}
	if flags.Changed("history") {
		cfg.History.Enabled = searchHistory
	}
}

// newSpotifyClient creates an API client from configuration
func newSpotifyClient(cfg *config.Config, logger zerolog.Logger) (*spotify.Client, error) {
	client, err := spotify.NewClient(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		BaseURL:      cfg.Spotify.APIURL,
		TokenURL:     cfg.Spotify.TokenURL,
		HTTPClient:   &http.Client{Timeout: cfg.HTTP.Timeout},
		MaxAttempts:  cfg.HTTP.MaxAttempts,
		Logger:       apiLogger{logger: logger.With().Str("component", "spotify").Logger()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify client: %w", err)
	}
	return client, nil
}
