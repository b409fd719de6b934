package meli

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Tokens holds the credentials returned by the provider token endpoint.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	UserID       string // provider-side account id
}

// Client talks to the Mercado Livre OAuth endpoints.
type Client struct {
	cfg        *Config
	oauth      *oauth2.Config
	httpClient *http.Client
}

// NewClient creates a provider client from configuration. Every token
// endpoint call runs with a finite timeout so no request blocks
// indefinitely.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL: cfg.AuthURL,
				TokenURL: cfg.TokenURL,
				// Mercado Livre expects client credentials in the form
				// body, not basic auth.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AuthCodeURL builds the provider authorization URL carrying the PKCE
// challenge, the CSRF state, and the marketplace site selector.
func (c *Client) AuthCodeURL(state, codeChallenge string) string {
	return c.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("site_id", c.cfg.SiteID),
	)
}

// Exchange trades an authorization code plus the original code verifier
// for tokens.
func (c *Client) Exchange(ctx context.Context, code, codeVerifier string) (*Tokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, upstreamError("token exchange failed", err)
	}

	return tokensFromOAuth2(token), nil
}

// Refresh exchanges a stored refresh token for a fresh access/refresh
// pair via the refresh_token grant.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	src := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, upstreamError("token refresh failed", err)
	}

	return tokensFromOAuth2(token), nil
}

func tokensFromOAuth2(token *oauth2.Token) *Tokens {
	t := &Tokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}

	// Mercado Livre returns its numeric account id alongside the tokens.
	switch id := token.Extra("user_id").(type) {
	case float64:
		t.UserID = strconv.FormatInt(int64(id), 10)
	case string:
		t.UserID = id
	}

	return t
}

// upstreamError maps a provider call failure to the upstream-exchange
// kind, preserving the provider status and body for diagnostics.
func upstreamError(msg string, err error) *FlowError {
	fe := NewFlowError(KindUpstreamExchangeFailure, msg, err)

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		if rerr.Response != nil {
			fe.UpstreamStatus = rerr.Response.StatusCode
		}
		fe.Detail = strings.TrimSpace(string(rerr.Body))
	}

	return fe
}
