package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jfmyers9/toptracks/pkg/spotify"
	"github.com/rs/zerolog"
)

// Sentinel values substituted for metadata that could not be looked up.
// GenreNotFound and NoGenre are distinct on purpose: the first means the
// artist lookup failed, the second that it succeeded with no genres.
const (
	GenreNotFound = "Genre not found"
	NoGenre       = "No genre available"
	Unavailable   = "N/A"
)

// ErrNoTracks is returned by TopTracks when the search matched nothing.
var ErrNoTracks = errors.New("no tracks found")

// Summary is the part of a search result the report needs
type Summary struct {
	ID          string
	Name        string
	Album       string
	ReleaseDate string
	Popularity  int
	ArtistID    string // first listed artist
}

// Features holds the formatted audio features of a track, or Unavailable
// per field
type Features struct {
	Tempo    string
	Key      string
	Mode     string
	Loudness string
}

// Record is a fully enriched track
type Record struct {
	Summary
	Genre    string
	Features Features

	// Set when the corresponding lookup failed and a sentinel was used
	GenreErr    error
	FeaturesErr error
}

// Row returns the record as export columns, in header order.
func (r Record) Row() []string {
	return []string{
		r.Name,
		r.Album,
		strconv.Itoa(r.Popularity),
		r.ReleaseDate,
		r.Genre,
		r.Features.Tempo,
		r.Features.Key,
		r.Features.Mode,
		r.Features.Loudness,
	}
}

// Client wraps the Spotify API client
type Client struct {
	client     *spotify.Client
	limit      int
	concurrent bool
	logger     zerolog.Logger
}

// Options configures a Client
type Options struct {
	Limit      int  // Tracks per search, defaults to 5
	Concurrent bool // Enrich tracks in parallel
}

// New creates a new catalog client on top of an API client
func New(client *spotify.Client, opts Options, logger zerolog.Logger) *Client {
	limit := opts.Limit
	if limit == 0 {
		limit = 5
	}
	return &Client{
		client:     client,
		limit:      limit,
		concurrent: opts.Concurrent,
		logger:     logger.With().Str("component", "catalog").Logger(),
	}
}

// Authenticate acquires the bearer token used by every other call.
// The token is assumed to stay valid for the rest of the run.
func (c *Client) Authenticate(ctx context.Context) (*spotify.Token, error) {
	token, err := c.client.Auth().Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}
	return token, nil
}

// TopTracks searches for tracks matching artist, in the API's relevance
// order. Returns ErrNoTracks when the search succeeded but matched nothing.
func (c *Client) TopTracks(ctx context.Context, artist string) ([]Summary, error) {
	tracks, err := c.client.Search().Tracks(ctx, artist, c.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}

	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}

	summaries := make([]Summary, len(tracks))
	for i, t := range tracks {
		summaries[i] = Summary{
			ID:          t.ID,
			Name:        t.Name,
			Album:       t.Album.Name,
			ReleaseDate: t.Album.ReleaseDate,
			Popularity:  t.Popularity,
			ArtistID:    t.PrimaryArtistID(),
		}
	}

	return summaries, nil
}

// Genre returns the artist's genres joined with ", ".
//
// It never returns an empty string: NoGenre when the artist has no genres,
// GenreNotFound together with the lookup error when the lookup failed.
func (c *Client) Genre(ctx context.Context, artistID string) (string, error) {
	if artistID == "" {
		return GenreNotFound, fmt.Errorf("track has no artist")
	}

	artist, err := c.client.Artists().Get(ctx, artistID)
	if err != nil {
		return GenreNotFound, fmt.Errorf("failed to get artist %s: %w", artistID, err)
	}

	if len(artist.Genres) == 0 {
		return NoGenre, nil
	}
	return strings.Join(artist.Genres, ", "), nil
}

// Features returns the track's tempo, key, mode and loudness.
//
// When the lookup fails every field is Unavailable and the error is
// returned. When it succeeds, fields missing from the response are
// Unavailable individually.
func (c *Client) Features(ctx context.Context, trackID string) (Features, error) {
	f, err := c.client.AudioFeatures().Get(ctx, trackID)
	if err != nil {
		return Features{
			Tempo:    Unavailable,
			Key:      Unavailable,
			Mode:     Unavailable,
			Loudness: Unavailable,
		}, fmt.Errorf("failed to get audio features for %s: %w", trackID, err)
	}

	return Features{
		Tempo:    formatFloat(f.Tempo),
		Key:      formatInt(f.Key),
		Mode:     formatInt(f.Mode),
		Loudness: formatFloat(f.Loudness),
	}, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return Unavailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return Unavailable
	}
	return strconv.Itoa(*v)
}
