// Package settings stores operator-tunable key/value configuration.
package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcampos/vendahub/internal/db"
)

var ErrNotFound = errors.New("setting not found")

type Setting struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) Get(key string) (*Setting, error) {
	var setting Setting
	err := s.db.QueryRow(`
		SELECT key, value, updated_at FROM system_settings WHERE key = ?`, key).
		Scan(&setting.Key, &setting.Value, &setting.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return &setting, nil
}

func (s *Store) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO system_settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

func (s *Store) List() ([]*Setting, error) {
	rows, err := s.db.Query(`SELECT key, value, updated_at FROM system_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	result := []*Setting{}
	for rows.Next() {
		var setting Setting
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		result = append(result, &setting)
	}
	return result, rows.Err()
}
