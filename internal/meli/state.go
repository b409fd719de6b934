package meli

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrStateNotFound is returned when an authorization state is not found,
// expired, or already consumed.
var ErrStateNotFound = errors.New("authorization state not found or already used")

// AuthState is the transient PKCE state persisted between initiating a
// connection and the provider redirect.
type AuthState struct {
	State        string
	UserID       string
	CodeVerifier string
	CreatedAt    time.Time
}

// StateStore manages authorization flow state in the database.
type StateStore struct {
	db *sql.DB
}

// NewStateStore creates a new state store.
func NewStateStore(db *sql.DB) *StateStore {
	return &StateStore{db: db}
}

// Put stores a new authorization state for a user, replacing any pending
// attempt. At most one in-flight attempt survives per user; the delete and
// insert happen in one transaction so a failure never leaves partial state.
func (s *StateStore) Put(userID, codeVerifier, state string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin state put: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM meli_auth_states WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clear pending states: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`
		INSERT INTO meli_auth_states (state, user_id, code_verifier, created_at)
		VALUES (?, ?, ?, ?)`,
		state, userID, codeVerifier, now)
	if err != nil {
		return fmt.Errorf("insert state: %w", err)
	}

	return tx.Commit()
}

// GetAndConsume retrieves the state row and deletes it in the same
// transaction, so a given state token can be consumed at most once. A
// replayed redirect fails with ErrStateNotFound on the second use.
func (s *StateStore) GetAndConsume(state string) (*AuthState, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin state consume: %w", err)
	}
	defer tx.Rollback()

	var as AuthState
	var createdAt string
	err = tx.QueryRow(`
		SELECT state, user_id, code_verifier, created_at
		FROM meli_auth_states WHERE state = ?`,
		state).Scan(&as.State, &as.UserID, &as.CodeVerifier, &createdAt)

	if err == sql.ErrNoRows {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup state: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM meli_auth_states WHERE state = ?", state); err != nil {
		return nil, fmt.Errorf("consume state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit state consume: %w", err)
	}

	as.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &as, nil
}
