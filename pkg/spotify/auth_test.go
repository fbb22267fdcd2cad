package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestAuthService_Token tests the client-credentials exchange.
func TestAuthService_Token(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		statusCode  int
		wantToken   string
		wantStatus  int
		wantErr     bool
		errContains string
	}{
		{
			name:       "success",
			response:   `{"access_token":"test-token-123","token_type":"Bearer","expires_in":3600}`,
			statusCode: http.StatusOK,
			wantToken:  "test-token-123",
		},
		{
			name:        "invalid client",
			response:    `{"error":"invalid_client","error_description":"Invalid client secret"}`,
			statusCode:  http.StatusUnauthorized,
			wantStatus:  http.StatusUnauthorized,
			wantErr:     true,
			errContains: "Invalid client secret",
		},
		{
			name:        "server error",
			response:    `{"error":"server_error"}`,
			statusCode:  http.StatusInternalServerError,
			wantStatus:  http.StatusInternalServerError,
			wantErr:     true,
			errContains: "HTTP 500",
		},
		{
			name:        "missing access token",
			response:    `{"token_type":"Bearer","expires_in":3600}`,
			statusCode:  http.StatusOK,
			wantErr:     true,
			errContains: "access_token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST request, got %s", r.Method)
				}

				if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
					t.Errorf("expected Content-Type application/x-www-form-urlencoded, got %s", ct)
				}

				id, secret, ok := r.BasicAuth()
				if !ok {
					t.Error("expected basic auth header")
				}
				if id != "test-client-id" || secret != "test-secret" {
					t.Errorf("unexpected basic auth credentials %q:%q", id, secret)
				}

				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if grant := r.PostForm.Get("grant_type"); grant != "client_credentials" {
					t.Errorf("expected grant_type client_credentials, got %s", grant)
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				if _, err := w.Write([]byte(tt.response)); err != nil {
					t.Fatalf("failed to write response body: %v", err)
				}
			}))
			defer server.Close()

			client, err := NewClient(Config{
				ClientID:     "test-client-id",
				ClientSecret: "test-secret",
				TokenURL:     server.URL,
			})
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			token, err := client.Auth().Token(context.Background())

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error to contain %q, got %q", tt.errContains, err.Error())
				}
				if tt.wantStatus != 0 {
					var apiErr *Error
					if !errors.As(err, &apiErr) {
						t.Fatalf("expected *Error, got %T", err)
					}
					if apiErr.StatusCode != tt.wantStatus {
						t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.StatusCode)
					}
					if apiErr.Body != tt.response {
						t.Errorf("expected body %q, got %q", tt.response, apiErr.Body)
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if token.AccessToken != tt.wantToken {
				t.Errorf("expected token %q, got %q", tt.wantToken, token.AccessToken)
			}
			if token.Expiry.IsZero() {
				t.Error("expected expiry to be set")
			}
			if client.Token() != nil {
				t.Error("Token should not store the token on the client")
			}
		})
	}
}

// TestAuthService_Authenticate tests that the token is kept on the client.
func TestAuthService_Authenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"stored-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-secret",
		TokenURL:     server.URL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	token, err := client.Auth().Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := client.Token()
	if stored == nil || stored.AccessToken != "stored-token" {
		t.Fatalf("expected stored token, got %+v", stored)
	}
	if stored != token {
		t.Error("expected returned token to be the stored token")
	}
	if stored.Expired(time.Now()) {
		t.Error("fresh token should not be expired")
	}
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing id", Config{ClientSecret: "s"}, "ClientID is required"},
		{"missing secret", Config{ClientID: "id"}, "ClientSecret is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	client, err := NewClient(Config{ClientID: "id", ClientSecret: "secret", BaseURL: "http://example.test/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.baseURL != "http://example.test/v1/" {
		t.Errorf("expected trailing slash on base URL, got %q", client.baseURL)
	}
	if client.tokenURL != DefaultTokenURL {
		t.Errorf("expected default token URL, got %q", client.tokenURL)
	}
	if client.maxAttempts != 1 {
		t.Errorf("expected 1 attempt by default, got %d", client.maxAttempts)
	}
}
