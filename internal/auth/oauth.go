package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"stravadash/internal/strava"
)

const (
	// Strava OAuth endpoints
	AuthURL  = "https://www.strava.com/oauth/authorize"
	TokenURL = "https://www.strava.com/oauth/token"
)

// Scopes required for the dashboard (Strava uses comma-separated scopes)
var Scopes = []string{
	"read,profile:read_all,activity:read",
}

// ErrCredentialExpired is returned when an operation requires a live
// credential but the session's credential is absent or past expiry.
var ErrCredentialExpired = errors.New("credential expired or missing")

// AuthError is a rejected token operation. It is never retried
// automatically; the caller must fall back to re-authorization.
type AuthError struct {
	Op  string // "exchange code" or "refresh token"
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Credential is an access/refresh token pair plus the athlete summary
// Strava embeds in the token response. It lives for the session and is
// never persisted here.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Athlete      strava.Athlete
}

// Valid reports whether the credential can still authorize API calls.
func (c *Credential) Valid() bool {
	return c != nil && c.AccessToken != "" && time.Now().Before(c.ExpiresAt)
}

// Client performs token exchanges against the Strava OAuth endpoint.
type Client struct {
	cfg *oauth2.Config

	// retry policy for transient failures on the refresh grant
	retryAttempts int
	retryBackoff  time.Duration
}

// NewClient creates an OAuth client for the given application
// credentials. redirectURL is the app URL Strava sends the browser back
// to with the authorization code.
func NewClient(clientID, clientSecret, redirectURL string) *Client {
	return NewClientWithEndpoint(clientID, clientSecret, redirectURL, oauth2.Endpoint{
		AuthURL:  AuthURL,
		TokenURL: TokenURL,
	})
}

// NewClientWithEndpoint creates a client against a non-default OAuth
// endpoint, mainly for tests talking to a local server.
func NewClientWithEndpoint(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint) *Client {
	return &Client{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoint,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
		},
		retryAttempts: 3,
		retryBackoff:  500 * time.Millisecond,
	}
}

// AuthorizationURL builds the URL the user visits to grant access.
// approval_prompt=force makes Strava re-show the consent screen, which
// guarantees a fresh authorization code on every login.
func (c *Client) AuthorizationURL(state string) string {
	return c.cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "force"))
}

// ExchangeCode trades a short-lived authorization code for a Credential.
// Codes are single-use, so a rejected exchange is never retried.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Credential, error) {
	token, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, &AuthError{Op: "exchange code", Err: err}
	}
	return credentialFromToken(token, "exchange code")
}

// Refresh trades a long-lived refresh token for a fresh Credential.
// Transient failures (network errors, 5xx) are retried with exponential
// backoff; a definitive rejection surfaces immediately as AuthError.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Credential, error) {
	// Expired placeholder token forces the source to use the refresh grant.
	seed := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	}

	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.retryBackoff << (attempt - 1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, &AuthError{Op: "refresh token", Err: ctx.Err()}
			}
		}

		token, err := c.cfg.TokenSource(ctx, seed).Token()
		if err == nil {
			return credentialFromToken(token, "refresh token")
		}
		lastErr = err

		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.Response.StatusCode < 500 {
			// Revoked or expired refresh token; the caller must re-authorize.
			return nil, &AuthError{Op: "refresh token", Err: err}
		}
	}

	return nil, &AuthError{Op: "refresh token", Err: lastErr}
}

// TokenSource returns an auto-refreshing source seeded from cred,
// suitable for building an authenticated API client.
func (c *Client) TokenSource(ctx context.Context, cred *Credential) oauth2.TokenSource {
	return c.cfg.TokenSource(ctx, &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.ExpiresAt,
	})
}

// credentialFromToken validates the token response and pulls the athlete
// summary out of the response extras. Only the presence of the access
// token is checked; everything else is taken as the endpoint sent it.
func credentialFromToken(token *oauth2.Token, op string) (*Credential, error) {
	if token.AccessToken == "" {
		return nil, &AuthError{Op: op, Err: errors.New("token response missing access_token")}
	}

	cred := &Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}

	if athlete, ok := token.Extra("athlete").(map[string]any); ok {
		if id, ok := athlete["id"].(float64); ok {
			cred.Athlete.ID = int64(id)
		}
		cred.Athlete.FirstName, _ = athlete["firstname"].(string)
		cred.Athlete.LastName, _ = athlete["lastname"].(string)
		cred.Athlete.Profile, _ = athlete["profile"].(string)
	}

	return cred, nil
}
