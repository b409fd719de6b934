package meli

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Provider identifiers for marketplace_credentials rows. Credentials are
// keyed (user_id, provider) so connecting a second marketplace never
// collides with an existing one.
const (
	ProviderMercadoLivre = "mercado_livre"
	ProviderShopee       = "shopee"
)

// ExpiryLookahead is the window within which a credential is reported as
// expiring soon.
const ExpiryLookahead = 7 * 24 * time.Hour

// ErrNotConnected is returned when a user has no stored credential for a
// provider.
var ErrNotConnected = errors.New("marketplace account not connected")

// Credential holds the durable tokens for one connected marketplace
// account.
type Credential struct {
	UserID            string    `json:"user_id"`
	Provider          string    `json:"provider"`
	AccessToken       string    `json:"-"`
	RefreshToken      string    `json:"-"`
	ExternalAccountID string    `json:"external_account_id"`
	ExpiresAt         time.Time `json:"expires_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ExpiringSoon reports whether the credential expires within the lookahead
// window measured from now. The boundary is inclusive: a credential
// expiring exactly at now + lookahead is flagged.
func (c *Credential) ExpiringSoon(now time.Time) bool {
	return !c.ExpiresAt.After(now.Add(ExpiryLookahead))
}

// CredentialStore manages marketplace credentials in the database.
type CredentialStore struct {
	db *sql.DB
}

// NewCredentialStore creates a new credential store.
func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Upsert creates or overwrites the credential row for (user, provider) in
// a single statement. The ON CONFLICT clause is what makes concurrent
// refresh and callback completion safe without explicit locking.
func (s *CredentialStore) Upsert(cred *Credential) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO marketplace_credentials
			(user_id, provider, access_token, refresh_token, external_account_id, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, provider) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			external_account_id = excluded.external_account_id,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		cred.UserID, cred.Provider, cred.AccessToken, cred.RefreshToken,
		cred.ExternalAccountID, cred.ExpiresAt.UTC().Format(time.RFC3339),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}

	cred.UpdatedAt = now
	return nil
}

// Get returns the stored credential for (user, provider), or
// ErrNotConnected when none exists. An expired credential is still
// returned; expiry never deletes the row.
func (s *CredentialStore) Get(userID, provider string) (*Credential, error) {
	var cred Credential
	var externalID sql.NullString
	var expiresAt, updatedAt string

	err := s.db.QueryRow(`
		SELECT user_id, provider, access_token, refresh_token, external_account_id, expires_at, updated_at
		FROM marketplace_credentials WHERE user_id = ? AND provider = ?`,
		userID, provider).Scan(&cred.UserID, &cred.Provider, &cred.AccessToken,
		&cred.RefreshToken, &externalID, &expiresAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotConnected
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	cred.ExternalAccountID = externalID.String
	cred.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	cred.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &cred, nil
}

// Delete removes the credential for (user, provider). Used when a seller
// disconnects an account from the dashboard.
func (s *CredentialStore) Delete(userID, provider string) error {
	_, err := s.db.Exec("DELETE FROM marketplace_credentials WHERE user_id = ? AND provider = ?", userID, provider)
	return err
}
