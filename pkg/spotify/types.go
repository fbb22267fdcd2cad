package spotify

import (
	"time"
)

// Token is a bearer token from the client-credentials grant.
type Token struct {
	AccessToken string    // Opaque bearer token
	TokenType   string    // Usually "Bearer"
	Expiry      time.Time // Zero if the server did not report an expiry
}

// Expired reports whether the token has passed its expiry at time now.
// Tokens without an expiry never expire.
func (t *Token) Expired(now time.Time) bool {
	if t.Expiry.IsZero() {
		return false
	}
	return !now.Before(t.Expiry)
}

// SimpleArtist is the artist reference embedded in track objects.
type SimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album is the simplified album embedded in track objects.
type Album struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	AlbumType            string `json:"album_type"`
	ReleaseDate          string `json:"release_date"`
	ReleaseDatePrecision string `json:"release_date_precision"` // year, month or day
	TotalTracks          int    `json:"total_tracks"`
}

// Track is a full track object as returned by search.
type Track struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Popularity int            `json:"popularity"`
	DurationMs int            `json:"duration_ms"`
	Explicit   bool           `json:"explicit"`
	URI        string         `json:"uri"`
	Album      Album          `json:"album"`
	Artists    []SimpleArtist `json:"artists"`
}

// PrimaryArtistID returns the ID of the first listed artist, or "" if the
// track has no artists.
func (t Track) PrimaryArtistID() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].ID
}

// Artist is a full artist object.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	URI        string   `json:"uri"`
}

// AudioFeatures holds the audio descriptors of a track.
//
// Numeric fields are pointers so a field missing from the response can be
// told apart from a zero value.
type AudioFeatures struct {
	ID            string   `json:"id"`
	Tempo         *float64 `json:"tempo"`
	Key           *int     `json:"key"`
	Mode          *int     `json:"mode"`
	Loudness      *float64 `json:"loudness"`
	Danceability  *float64 `json:"danceability"`
	Energy        *float64 `json:"energy"`
	Valence       *float64 `json:"valence"`
	TimeSignature *int     `json:"time_signature"`
	DurationMs    *int     `json:"duration_ms"`
}

// Paging is a page of items from a list endpoint.
type Paging[T any] struct {
	Href     string  `json:"href"`
	Items    []T     `json:"items"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Total    int     `json:"total"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// SearchResponse is the body of a search request.
type SearchResponse struct {
	Tracks *Paging[Track] `json:"tracks,omitempty"`
}
