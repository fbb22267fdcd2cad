package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchService provides catalog search.
type SearchService struct {
	client *Client
}

// Tracks searches for tracks matching query and returns at most limit
// results in the order the API ranks them.
//
// limit must be between 1 and 50; 0 selects the default of 5.
func (s *SearchService) Tracks(ctx context.Context, query string, limit int) ([]Track, error) {
	if query == "" {
		return nil, fmt.Errorf("spotify: search query is required")
	}
	if limit == 0 {
		limit = 5
	}
	if limit < 1 || limit > 50 {
		return nil, fmt.Errorf("spotify: search limit must be between 1 and 50 (got %d)", limit)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	var resp SearchResponse
	if err := s.client.get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	if resp.Tracks == nil {
		return []Track{}, nil
	}
	return resp.Tracks.Items, nil
}

// ArtistService provides artist lookups.
type ArtistService struct {
	client *Client
}

// Get retrieves a single artist by ID.
func (s *ArtistService) Get(ctx context.Context, id string) (*Artist, error) {
	if id == "" {
		return nil, fmt.Errorf("spotify: artist ID is required")
	}

	var artist Artist
	if err := s.client.get(ctx, "artists/"+url.PathEscape(id), nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// AudioFeatureService provides audio feature lookups.
type AudioFeatureService struct {
	client *Client
}

// Get retrieves the audio features of a single track.
//
// Fields absent from the response are left nil.
func (s *AudioFeatureService) Get(ctx context.Context, trackID string) (*AudioFeatures, error) {
	if trackID == "" {
		return nil, fmt.Errorf("spotify: track ID is required")
	}

	var features AudioFeatures
	if err := s.client.get(ctx, "audio-features/"+url.PathEscape(trackID), nil, &features); err != nil {
		return nil, err
	}
	return &features, nil
}
