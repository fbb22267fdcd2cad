package spotify

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AuthService provides the client-credentials grant.
type AuthService struct {
	client *Client
}

// Token exchanges the client ID and secret for a bearer token.
//
// The request is a POST to the token endpoint with HTTP Basic
// authentication and the form body grant_type=client_credentials.
// A non-2xx response is returned as *Error with the status code and body.
//
// Example:
//
//	token, err := client.Auth().Token(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("expires:", token.Expiry)
func (a *AuthService) Token(ctx context.Context) (*Token, error) {
	cfg := &clientcredentials.Config{
		ClientID:     a.client.clientID,
		ClientSecret: a.client.clientSecret,
		TokenURL:     a.client.tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client.httpClient)

	a.client.logDebugf("spotify: requesting client-credentials token")
	tok, err := cfg.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, newError(retrieveErr.Response.StatusCode, retrieveErr.Body)
		}
		return nil, fmt.Errorf("failed to retrieve token: %w", err)
	}

	return &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Expiry:      tok.Expiry,
	}, nil
}

// Authenticate fetches a token and stores it on the client for
// subsequent requests.
//
// Example:
//
//	if _, err := client.Auth().Authenticate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	artist, err := client.Artists().Get(ctx, id)
func (a *AuthService) Authenticate(ctx context.Context) (*Token, error) {
	token, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}

	a.client.SetToken(token)
	return token, nil
}
