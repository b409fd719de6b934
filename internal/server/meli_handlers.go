// internal/server/meli_handlers.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rcampos/vendahub/internal/log"
	"github.com/rcampos/vendahub/internal/meli"
)

// handleMeliStart initiates the Mercado Livre connection: generates the
// PKCE pair and state, persists them, and returns the provider
// authorization URL for the dashboard to open in a popup.
func (s *Server) handleMeliStart(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if user == nil {
		s.writeError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
		return
	}

	if err := s.meliConfig.Validate(); err != nil {
		log.Error("meli start rejected", "error", err.Error())
		s.writeError(w, http.StatusInternalServerError, "configuration", "Mercado Livre integration is not configured")
		return
	}

	verifier, err := meli.GenerateCodeVerifier(meli.VerifierLength)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to generate authorization parameters")
		return
	}
	challenge := meli.DeriveCodeChallenge(verifier)
	state := meli.GenerateState()

	if err := s.stateStore.Put(user.ID, verifier, state); err != nil {
		log.Error("failed to store authorization state", "user_id", user.ID, "error", err.Error())
		s.writeError(w, http.StatusInternalServerError, "persistence_failure", "Failed to store authorization state")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"authUrl": s.meliClient.AuthCodeURL(state, challenge),
		"state":   state,
	})
}

// handleMeliCallback terminates the provider redirect. The browser lands
// here inside the popup, so every outcome renders HTML, never JSON. The
// checks run in order and the first failure wins.
func (s *Server) handleMeliCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		detail := errParam
		if desc := q.Get("error_description"); desc != "" {
			detail += ": " + desc
		}
		log.Warn("meli callback denied by provider", "error", errParam)
		s.renderCallbackError(w, http.StatusBadRequest,
			"Authorization failed",
			"Mercado Livre did not authorize the connection.", detail)
		return
	}

	code := q.Get("code")
	state := q.Get("state")
	if code == "" || state == "" {
		s.renderCallbackError(w, http.StatusBadRequest,
			"Invalid callback",
			"The authorization response is missing required parameters.", "")
		return
	}

	authState, err := s.stateStore.GetAndConsume(state)
	if err != nil {
		if errors.Is(err, meli.ErrStateNotFound) {
			s.renderCallbackError(w, http.StatusBadRequest,
				"Session expired",
				"This authorization link has expired or was already used. Close this window and connect again.", "")
			return
		}
		log.Error("failed to consume authorization state", "error", err.Error())
		s.renderCallbackError(w, http.StatusInternalServerError,
			"Connection failed",
			"An internal error occurred while validating the authorization.", "")
		return
	}

	tokens, err := s.meliClient.Exchange(r.Context(), code, authState.CodeVerifier)
	if err != nil {
		var fe *meli.FlowError
		detail := ""
		if errors.As(err, &fe) {
			if fe.UpstreamStatus != 0 {
				detail = fmt.Sprintf("provider returned status %d", fe.UpstreamStatus)
			}
			if fe.Detail != "" {
				if detail != "" {
					detail += ": "
				}
				detail += fe.Detail
			}
		}
		log.Error("meli token exchange failed", "user_id", authState.UserID, "detail", detail)
		s.renderCallbackError(w, http.StatusInternalServerError,
			"Connection failed",
			"Mercado Livre rejected the token exchange.", detail)
		return
	}

	cred := &meli.Credential{
		UserID:            authState.UserID,
		Provider:          meli.ProviderMercadoLivre,
		AccessToken:       tokens.AccessToken,
		RefreshToken:      tokens.RefreshToken,
		ExternalAccountID: tokens.UserID,
		ExpiresAt:         tokens.ExpiresAt,
	}
	if err := s.credentialStore.Upsert(cred); err != nil {
		// The provider issued tokens but we could not record them. This
		// must read differently from an exchange failure in the logs.
		log.Error("failed to save meli credential after successful exchange",
			"user_id", authState.UserID, "error", err.Error())
		s.renderCallbackError(w, http.StatusInternalServerError,
			"Connection failed",
			"The connection was authorized but could not be saved. Please try connecting again.", "")
		return
	}

	log.Info("meli account connected", "user_id", authState.UserID, "meli_user_id", tokens.UserID)
	s.renderCallbackSuccess(w, tokens.UserID)
}

func (s *Server) renderCallbackSuccess(w http.ResponseWriter, externalAccountID string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	meli.RenderSuccessPage(w, externalAccountID)
}

func (s *Server) renderCallbackError(w http.ResponseWriter, status int, title, message, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	meli.RenderErrorPage(w, title, message, detail)
}

// handleMeliRefresh exchanges the stored refresh token for a fresh
// access/refresh pair and persists the result atomically.
func (s *Server) handleMeliRefresh(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if user == nil {
		s.writeError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
		return
	}

	if err := s.meliConfig.Validate(); err != nil {
		s.writeError(w, http.StatusInternalServerError, "configuration", "Mercado Livre integration is not configured")
		return
	}

	cred, err := s.credentialStore.Get(user.ID, meli.ProviderMercadoLivre)
	if err != nil {
		if errors.Is(err, meli.ErrNotConnected) {
			s.writeError(w, http.StatusNotFound, "not_connected", "No Mercado Livre account connected")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to load credentials")
		return
	}

	tokens, err := s.meliClient.Refresh(r.Context(), cred.RefreshToken)
	if err != nil {
		status := http.StatusBadGateway
		message := "Token refresh failed"
		var fe *meli.FlowError
		if errors.As(err, &fe) {
			// Propagate the provider status so callers can tell a revoked
			// grant (4xx) from a provider outage (5xx).
			if fe.UpstreamStatus != 0 {
				status = fe.UpstreamStatus
			}
			if fe.Detail != "" {
				message = fe.Detail
			}
		}
		log.Warn("meli token refresh failed", "user_id", user.ID, "status", status)
		s.writeError(w, status, "upstream_exchange_failure", message)
		return
	}

	// Some providers omit the refresh token on renewal; keep the old one.
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = cred.RefreshToken
	}
	if tokens.UserID == "" {
		tokens.UserID = cred.ExternalAccountID
	}

	updated := &meli.Credential{
		UserID:            user.ID,
		Provider:          meli.ProviderMercadoLivre,
		AccessToken:       tokens.AccessToken,
		RefreshToken:      tokens.RefreshToken,
		ExternalAccountID: tokens.UserID,
		ExpiresAt:         tokens.ExpiresAt,
	}
	if err := s.credentialStore.Upsert(updated); err != nil {
		log.Error("failed to save refreshed meli credential", "user_id", user.ID, "error", err.Error())
		s.writeError(w, http.StatusInternalServerError, "persistence_failure", "Failed to save refreshed credentials")
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"success":    true,
		"expires_at": tokens.ExpiresAt.UTC().Format(time.RFC3339),
		"user_id":    tokens.UserID,
	})
}

func (s *Server) handleMeliDisconnect(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if user == nil {
		s.writeError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
		return
	}

	if err := s.credentialStore.Delete(user.ID, meli.ProviderMercadoLivre); err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to disconnect account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type IntegrationStatus struct {
	Provider          string `json:"provider"`
	Connected         bool   `json:"connected"`
	ExternalAccountID string `json:"external_account_id,omitempty"`
	ExpiresAt         string `json:"expires_at,omitempty"`
	ExpiringSoon      bool   `json:"expiring_soon,omitempty"`
}

// handleIntegrationStatus reports each marketplace connection, flagging
// credentials that expire within the lookahead window.
func (s *Server) handleIntegrationStatus(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if user == nil {
		s.writeError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
		return
	}

	now := time.Now().UTC()
	statuses := []IntegrationStatus{}
	for _, provider := range []string{meli.ProviderMercadoLivre, meli.ProviderShopee} {
		status := IntegrationStatus{Provider: provider}

		cred, err := s.credentialStore.Get(user.ID, provider)
		if err == nil {
			status.Connected = true
			status.ExternalAccountID = cred.ExternalAccountID
			status.ExpiresAt = cred.ExpiresAt.UTC().Format(time.RFC3339)
			status.ExpiringSoon = cred.ExpiringSoon(now)
		} else if !errors.Is(err, meli.ErrNotConnected) {
			s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to load integration status")
			return
		}

		statuses = append(statuses, status)
	}

	json.NewEncoder(w).Encode(map[string]any{"integrations": statuses})
}
