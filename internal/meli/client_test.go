package meli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClientConfig(tokenURL string) *Config {
	return &Config{
		ClientID:     "client-123",
		ClientSecret: "secret-456",
		RedirectURI:  "https://dashboard.example.com/integrations/v1/meli/callback",
		SiteID:       "MLB",
		AuthURL:      "https://auth.mercadolibre.com/authorization",
		TokenURL:     tokenURL,
		Timeout:      5 * time.Second,
	}
}

func TestAuthCodeURL(t *testing.T) {
	client := NewClient(testClientConfig("https://api.mercadolibre.com/oauth/token"))

	raw := client.AuthCodeURL("state-abc", "challenge-xyz")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "auth.mercadolibre.com", parsed.Host)
	q := parsed.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "state-abc", q.Get("state"))
	assert.Equal(t, "challenge-xyz", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "MLB", q.Get("site_id"))
	assert.Contains(t, q.Get("redirect_uri"), "/meli/callback")
}

func TestExchangeSuccess(t *testing.T) {
	var gotForm url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "APP_USR-token",
			"token_type": "Bearer",
			"expires_in": 21600,
			"refresh_token": "TG-refresh",
			"user_id": 123456789
		}`))
	}))
	defer ts.Close()

	client := NewClient(testClientConfig(ts.URL))

	before := time.Now()
	tokens, err := client.Exchange(context.Background(), "AUTH-CODE", "verifier-123")
	require.NoError(t, err)

	assert.Equal(t, "APP_USR-token", tokens.AccessToken)
	assert.Equal(t, "TG-refresh", tokens.RefreshToken)
	assert.Equal(t, "123456789", tokens.UserID)

	// expires_in is honored, give a generous window for test latency
	assert.WithinDuration(t, before.Add(21600*time.Second), tokens.ExpiresAt, time.Minute)

	assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	assert.Equal(t, "AUTH-CODE", gotForm.Get("code"))
	assert.Equal(t, "verifier-123", gotForm.Get("code_verifier"))
	assert.Equal(t, "client-123", gotForm.Get("client_id"))
	assert.Equal(t, "secret-456", gotForm.Get("client_secret"))
}

func TestExchangeUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","message":"Error validating grant"}`))
	}))
	defer ts.Close()

	client := NewClient(testClientConfig(ts.URL))

	_, err := client.Exchange(context.Background(), "BAD-CODE", "verifier-123")
	require.Error(t, err)

	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindUpstreamExchangeFailure, fe.Kind)
	assert.Equal(t, http.StatusBadRequest, fe.UpstreamStatus)
	assert.Contains(t, fe.Detail, "invalid_grant")
}

func TestRefreshSuccess(t *testing.T) {
	var gotForm url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "APP_USR-new",
			"token_type": "Bearer",
			"expires_in": 21600,
			"refresh_token": "TG-rotated",
			"user_id": "123456789"
		}`))
	}))
	defer ts.Close()

	client := NewClient(testClientConfig(ts.URL))

	tokens, err := client.Refresh(context.Background(), "TG-old")
	require.NoError(t, err)

	assert.Equal(t, "APP_USR-new", tokens.AccessToken)
	assert.Equal(t, "TG-rotated", tokens.RefreshToken)
	assert.Equal(t, "123456789", tokens.UserID)

	assert.Equal(t, "refresh_token", gotForm.Get("grant_type"))
	assert.Equal(t, "TG-old", gotForm.Get("refresh_token"))
}

func TestRefreshUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_token"}`))
	}))
	defer ts.Close()

	client := NewClient(testClientConfig(ts.URL))

	_, err := client.Refresh(context.Background(), "TG-revoked")
	require.Error(t, err)

	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindUpstreamExchangeFailure, fe.Kind)
	assert.Equal(t, http.StatusUnauthorized, fe.UpstreamStatus)
}

func TestConfigValidate(t *testing.T) {
	cfg := testClientConfig("https://api.mercadolibre.com/oauth/token")
	assert.NoError(t, cfg.Validate())

	missing := *cfg
	missing.ClientSecret = ""
	err := missing.Validate()
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindConfiguration, kind)
}
