// Package spotify provides a small client for the Spotify Web API.
//
// # Overview
//
// The package covers the client-credentials flow and the read-only catalog
// endpoints needed to look up tracks: search, artists and audio features.
// All methods accept a context.Context and return structured errors.
//
// # Quick Start
//
//	client, err := spotify.NewClient(spotify.Config{
//	    ClientID:     "your-client-id",
//	    ClientSecret: "your-client-secret",
//	    HTTPClient:   &http.Client{Timeout: 10 * time.Second},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Fetch a token and keep it on the client
//	if _, err := client.Auth().Authenticate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	tracks, err := client.Search().Tracks(ctx, "Sid Sriram", 5)
//
// # Tokens
//
// Tokens obtained through the client-credentials grant are never refreshed.
// Every authenticated request checks that a token is set and has not passed
// its expiry; otherwise ErrNoToken or ErrTokenExpired is returned without a
// network round trip. A token is assumed to outlive a single short run.
//
// # Error Handling
//
// Non-2xx responses are returned as *Error, carrying the HTTP status code,
// the message extracted from the body and the raw body:
//
//	artist, err := client.Artists().Get(ctx, id)
//	if err != nil {
//	    var apiErr *spotify.Error
//	    if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
//	        // unknown artist
//	    }
//	}
//
// # Retries
//
// Config.MaxAttempts defaults to 1, meaning requests are never retried.
// Larger values retry network errors, 429 and 5xx responses with
// exponential backoff.
package spotify
