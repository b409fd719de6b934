package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Listing statuses move draft -> published -> paused/closed.
const (
	ListingDraft     = "draft"
	ListingPublished = "published"
	ListingPaused    = "paused"
	ListingClosed    = "closed"
)

// Listing is a product published (or about to be) on one marketplace.
// ExternalID and URL are filled once the marketplace accepts it.
type Listing struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	ProductID   string  `json:"product_id"`
	Marketplace string  `json:"marketplace"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	ExternalID  string  `json:"external_id,omitempty"`
	URL         string  `json:"url,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func (s *Store) CreateListing(l *Listing) error {
	if l.ProductID == "" || l.Marketplace == "" || l.Title == "" {
		return fmt.Errorf("product_id, marketplace and title are required")
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = ListingDraft
	}
	now := time.Now().UTC().Format(time.RFC3339)
	l.CreatedAt = now
	l.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO marketplace_listings (id, user_id, product_id, marketplace, title, description, price, status, external_id, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.ProductID, l.Marketplace, l.Title, l.Description, l.Price, l.Status, l.ExternalID, l.URL, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (s *Store) GetListing(userID, id string) (*Listing, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, product_id, marketplace, title, COALESCE(description, ''), price, status,
		       COALESCE(external_id, ''), COALESCE(url, ''), created_at, updated_at
		FROM marketplace_listings WHERE id = ? AND user_id = ?`, id, userID)
	return scanListing(row)
}

// ListListings returns the user's listings, optionally filtered by
// marketplace when the filter is non-empty.
func (s *Store) ListListings(userID, marketplace string) ([]*Listing, error) {
	query := `
		SELECT id, user_id, product_id, marketplace, title, COALESCE(description, ''), price, status,
		       COALESCE(external_id, ''), COALESCE(url, ''), created_at, updated_at
		FROM marketplace_listings WHERE user_id = ?`
	args := []any{userID}
	if marketplace != "" {
		query += ` AND marketplace = ?`
		args = append(args, marketplace)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	listings := []*Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (s *Store) UpdateListing(l *Listing) error {
	l.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	result, err := s.db.Exec(`
		UPDATE marketplace_listings
		SET title = ?, description = ?, price = ?, status = ?, external_id = ?, url = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		l.Title, l.Description, l.Price, l.Status, l.ExternalID, l.URL, l.UpdatedAt,
		l.ID, l.UserID)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteListing(userID, id string) error {
	result, err := s.db.Exec(`DELETE FROM marketplace_listings WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanListing(row rowScanner) (*Listing, error) {
	var l Listing
	err := row.Scan(&l.ID, &l.UserID, &l.ProductID, &l.Marketplace, &l.Title, &l.Description,
		&l.Price, &l.Status, &l.ExternalID, &l.URL, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}
	return &l, nil
}
