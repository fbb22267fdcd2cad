package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jfmyers9/toptracks/internal/catalog"
	"github.com/jfmyers9/toptracks/internal/history"
	"github.com/jfmyers9/toptracks/internal/report"
	"github.com/jfmyers9/toptracks/pkg/spotify"
	"github.com/rs/zerolog"
)

// ErrAuthentication is returned by Run when no access token could be
// acquired. Nothing is searched or exported in that case.
var ErrAuthentication = errors.New("authentication failed")

// Config holds runner configuration
type Config struct {
	OutputDir string // Directory the CSV export is written to
}

// Recorder stores finished runs. *history.Store satisfies it.
type Recorder interface {
	Add(ctx context.Context, run history.Run) (string, error)
}

// Runner drives one search: authenticate, search, enrich, print, export
type Runner struct {
	config   Config
	catalog  *catalog.Client
	printer  *report.Printer
	recorder Recorder // nil disables history
	logger   zerolog.Logger
}

// Result describes a finished run
type Result struct {
	Artist  string
	File    string // Path of the export
	Records []catalog.Record

	// Set when the search failed or matched nothing; the export then only
	// holds the header
	SearchErr error

	RunID string // History identifier, empty when history is off
}

// New creates a Runner. recorder may be nil.
func New(cfg Config, c *catalog.Client, printer *report.Printer, recorder Recorder, logger zerolog.Logger) *Runner {
	return &Runner{
		config:   cfg,
		catalog:  c,
		printer:  printer,
		recorder: recorder,
		logger:   logger.With().Str("component", "runner").Logger(),
	}
}

// Run executes the whole pipeline for artist.
//
// A failed token request aborts the run with an error wrapping
// ErrAuthentication. A failed or empty search is not an error: the
// report says so and a header-only export is written. Enrichment
// failures only show up as sentinel values on the records.
func (r *Runner) Run(ctx context.Context, artist string) (*Result, error) {
	log := r.logger.With().Str("artist", artist).Logger()
	log.Debug().Msg("Starting run")

	if _, err := r.catalog.Authenticate(ctx); err != nil {
		r.logAuthFailure(log, err)
		r.record(ctx, history.Run{
			Artist: artist,
			Status: history.StatusAuthFailed,
			Error:  err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	result := &Result{Artist: artist}
	status := history.StatusOK

	summaries, err := r.catalog.TopTracks(ctx, artist)
	switch {
	case errors.Is(err, catalog.ErrNoTracks):
		result.SearchErr = err
		status = history.StatusNoTracks
		log.Info().Msg("No tracks found")
		r.printer.NoTracks(artist)
	case err != nil:
		result.SearchErr = err
		status = history.StatusSearchFailed
		log.Error().Err(err).Msg("Track search failed")
	default:
		log.Debug().Int("count", len(summaries)).Msg("Found tracks")

		result.Records = r.catalog.Enrich(ctx, summaries)

		r.printer.Header(artist, len(result.Records))
		for i, rec := range result.Records {
			r.printer.Track(i+1, rec)
		}
	}

	path, err := report.Export(r.config.OutputDir, artist, result.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to export tracks: %w", err)
	}
	result.File = path
	r.printer.Saved(report.Filename(artist))

	log.Info().
		Str("file", path).
		Int("tracks", len(result.Records)).
		Msg("Export written")

	run := history.Run{
		Artist: artist,
		File:   path,
		Status: status,
		Tracks: toHistoryTracks(result.Records),
	}
	if result.SearchErr != nil {
		run.Error = result.SearchErr.Error()
	}
	result.RunID = r.record(ctx, run)

	return result, nil
}

// logAuthFailure logs the status and body of a rejected token request
func (r *Runner) logAuthFailure(log zerolog.Logger, err error) {
	event := log.Error().Err(err)

	var apiErr *spotify.Error
	if errors.As(err, &apiErr) {
		event = event.Int("status", apiErr.StatusCode).Str("body", apiErr.Body)
	}

	event.Msg("Failed to get access token")
}

// record saves run to history, logging instead of failing the run
func (r *Runner) record(ctx context.Context, run history.Run) string {
	if r.recorder == nil {
		return ""
	}

	run.CreatedAt = time.Now()
	id, err := r.recorder.Add(ctx, run)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to record run history")
		return ""
	}
	return id
}

func toHistoryTracks(records []catalog.Record) []history.Track {
	tracks := make([]history.Track, len(records))
	for i, rec := range records {
		tracks[i] = history.Track{
			Position:    i + 1,
			Name:        rec.Name,
			Album:       rec.Album,
			Popularity:  rec.Popularity,
			ReleaseDate: rec.ReleaseDate,
			Genre:       rec.Genre,
			Tempo:       rec.Features.Tempo,
			Key:         rec.Features.Key,
			Mode:        rec.Features.Mode,
			Loudness:    rec.Features.Loudness,
		}
	}
	return tracks
}
