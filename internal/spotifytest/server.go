// Package spotifytest provides an in-process fake of the Spotify token and
// Web API endpoints for tests.
package spotifytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jfmyers9/toptracks/pkg/spotify"
)

// Track describes one search result served by the fake.
type Track struct {
	ID          string
	Name        string
	Album       string
	ReleaseDate string
	Popularity  int
	ArtistID    string // empty serves a track without artists
}

// Fixture controls what the fake serves. Zero values give a working
// server with no tracks.
type Fixture struct {
	TokenStatus int    // defaults to 200
	TokenBody   string // defaults to a valid token response

	SearchStatus int    // defaults to 200
	SearchBody   string // overrides the body built from Tracks

	Tracks []Track

	// Artist ID to genres; unknown IDs get 404
	Genres map[string][]string

	// Track ID to raw audio-features JSON; unknown IDs get 404
	Features map[string]string
}

// Server is a running fake.
type Server struct {
	*httptest.Server

	fixture Fixture

	mu    sync.Mutex
	calls map[string]int
}

// NewServer starts a fake serving f and closes it when the test ends.
func NewServer(t testing.TB, f Fixture) *Server {
	t.Helper()

	s := &Server{fixture: f, calls: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	return s
}

// TokenURL is the fake token endpoint.
func (s *Server) TokenURL() string {
	return s.URL + "/api/token"
}

// APIURL is the fake Web API base URL.
func (s *Server) APIURL() string {
	return s.URL + "/v1/"
}

// NewClient returns a client pointed at the fake. No token is set.
func (s *Server) NewClient(t testing.TB) *spotify.Client {
	t.Helper()

	client, err := spotify.NewClient(spotify.Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		BaseURL:      s.APIURL(),
		TokenURL:     s.TokenURL(),
		HTTPClient:   s.Client(),
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

// Calls returns how many requests hit endpoint: "token", "search",
// "artists" or "audio-features".
func (s *Server) Calls(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

func (s *Server) count(endpoint string) {
	s.mu.Lock()
	s.calls[endpoint]++
	s.mu.Unlock()
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/api/token":
		s.count("token")
		s.serveToken(w, r)
		return
	case !strings.HasPrefix(path, "/v1/"):
		writeJSON(w, http.StatusNotFound, `{"error":{"status":404,"message":"Service not found"}}`)
		return
	}

	if r.Header.Get("Authorization") != "Bearer fake-access-token" {
		writeJSON(w, http.StatusUnauthorized, `{"error":{"status":401,"message":"Invalid access token"}}`)
		return
	}

	rest := strings.TrimPrefix(path, "/v1/")
	switch {
	case rest == "search":
		s.count("search")
		s.serveSearch(w)
	case strings.HasPrefix(rest, "artists/"):
		s.count("artists")
		genres, ok := s.fixture.Genres[strings.TrimPrefix(rest, "artists/")]
		if !ok {
			writeJSON(w, http.StatusNotFound, `{"error":{"status":404,"message":"non existing id"}}`)
			return
		}
		if genres == nil {
			genres = []string{}
		}
		body, _ := json.Marshal(map[string]interface{}{"id": strings.TrimPrefix(rest, "artists/"), "genres": genres})
		writeJSON(w, http.StatusOK, string(body))
	case strings.HasPrefix(rest, "audio-features/"):
		s.count("audio-features")
		body, ok := s.fixture.Features[strings.TrimPrefix(rest, "audio-features/")]
		if !ok {
			writeJSON(w, http.StatusNotFound, `{"error":{"status":404,"message":"analysis not found"}}`)
			return
		}
		writeJSON(w, http.StatusOK, body)
	default:
		writeJSON(w, http.StatusNotFound, `{"error":{"status":404,"message":"Service not found"}}`)
	}
}

func (s *Server) serveToken(w http.ResponseWriter, r *http.Request) {
	if id, secret, ok := r.BasicAuth(); !ok || id == "" || secret == "" {
		writeJSON(w, http.StatusBadRequest, `{"error":"invalid_client","error_description":"Invalid client"}`)
		return
	}

	status := s.fixture.TokenStatus
	if status == 0 {
		status = http.StatusOK
	}
	body := s.fixture.TokenBody
	if body == "" {
		body = `{"access_token":"fake-access-token","token_type":"Bearer","expires_in":3600}`
	}
	writeJSON(w, status, body)
}

func (s *Server) serveSearch(w http.ResponseWriter) {
	status := s.fixture.SearchStatus
	if status == 0 {
		status = http.StatusOK
	}
	if s.fixture.SearchBody != "" {
		writeJSON(w, status, s.fixture.SearchBody)
		return
	}

	items := make([]map[string]interface{}, 0, len(s.fixture.Tracks))
	for _, t := range s.fixture.Tracks {
		artists := []map[string]string{}
		if t.ArtistID != "" {
			artists = append(artists, map[string]string{"id": t.ArtistID, "name": "Artist " + t.ArtistID})
		}
		items = append(items, map[string]interface{}{
			"id":         t.ID,
			"name":       t.Name,
			"popularity": t.Popularity,
			"album":      map[string]string{"name": t.Album, "release_date": t.ReleaseDate},
			"artists":    artists,
		})
	}

	body, _ := json.Marshal(map[string]interface{}{
		"tracks": map[string]interface{}{"items": items, "total": len(items)},
	})
	writeJSON(w, status, string(body))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
