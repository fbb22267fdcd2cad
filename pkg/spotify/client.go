package spotify

import (
	"fmt"
	"net/http"
	"sync"
)

// Config holds client configuration.
type Config struct {
	ClientID     string       // Required: application client ID
	ClientSecret string       // Required: application client secret
	HTTPClient   *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL      string       // Optional: Web API base URL (defaults to DefaultBaseURL, used for testing)
	TokenURL     string       // Optional: token endpoint (defaults to DefaultTokenURL, used for testing)
	MaxAttempts  int          // Optional: attempts per request (defaults to 1, no retries)
	Logger       Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Spotify Web API operations.
type Client struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	baseURL      string
	tokenURL     string
	maxAttempts  int
	logger       Logger

	mu    sync.RWMutex
	token *Token

	auth     *AuthService
	search   *SearchService
	artists  *ArtistService
	features *AudioFeatureService
}

const (
	// DefaultBaseURL is the default Spotify Web API endpoint.
	DefaultBaseURL = "https://api.spotify.com/v1/"

	// DefaultTokenURL is the default accounts service token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// NewClient creates a new Spotify Web API client.
//
// Returns an error if required configuration (ClientID, ClientSecret) is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("spotify: ClientID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("spotify: ClientSecret is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if baseURL[len(baseURL)-1] != '/' {
		baseURL += "/"
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	c := &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
		baseURL:      baseURL,
		tokenURL:     tokenURL,
		maxAttempts:  maxAttempts,
		logger:       cfg.Logger,
	}

	c.auth = &AuthService{client: c}
	c.search = &SearchService{client: c}
	c.artists = &ArtistService{client: c}
	c.features = &AudioFeatureService{client: c}

	return c, nil
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return c.search
}

// Artists returns the artist service.
func (c *Client) Artists() *ArtistService {
	return c.artists
}

// AudioFeatures returns the audio feature service.
func (c *Client) AudioFeatures() *AudioFeatureService {
	return c.features
}

// SetToken sets the bearer token used for authenticated requests.
func (c *Client) SetToken(token *Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token, or nil if none is set.
func (c *Client) Token() *Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
