package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcampos/vendahub/internal/db"
)

// Generated is a saved generation, so sellers can reuse copy later.
type Generated struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	ProductID   string   `json:"product_id,omitempty"`
	Marketplace string   `json:"marketplace"`
	Style       string   `json:"style,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
}

type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) Save(g *Generated) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	var productID any
	if g.ProductID != "" {
		productID = g.ProductID
	}

	_, err := s.db.Exec(`
		INSERT INTO generated_descriptions (id, user_id, product_id, marketplace, style, title, description, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, productID, g.Marketplace, g.Style, g.Title, g.Description,
		strings.Join(g.Tags, ","), g.CreatedAt, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save generated content: %w", err)
	}
	return nil
}

func (s *Store) List(userID string, limit int) ([]*Generated, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, user_id, COALESCE(product_id, ''), marketplace, COALESCE(style, ''), title, description, COALESCE(tags, ''), created_at
		FROM generated_descriptions WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generated content: %w", err)
	}
	defer rows.Close()

	result := []*Generated{}
	for rows.Next() {
		var g Generated
		var tags string
		err := rows.Scan(&g.ID, &g.UserID, &g.ProductID, &g.Marketplace, &g.Style, &g.Title, &g.Description, &tags, &g.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generated content: %w", err)
		}
		if tags != "" {
			g.Tags = strings.Split(tags, ",")
		}
		result = append(result, &g)
	}
	return result, rows.Err()
}
