package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcampos/vendahub/internal/db"
)

var ErrNotFound = errors.New("not found")

// Product is a seller's catalog item. Cost is what the seller pays,
// Price is the default asking price before marketplace fees.
type Product struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Cost        float64 `json:"cost"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Store provides catalog persistence. All reads and writes are scoped
// to a user id so one seller can never touch another seller's rows.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) CreateProduct(p *Product) error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO products (id, user_id, name, sku, description, category, cost, price, stock, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, p.SKU, p.Description, p.Category, p.Cost, p.Price, p.Stock, p.ImageURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *Store) GetProduct(userID, id string) (*Product, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, name, COALESCE(sku, ''), COALESCE(description, ''), COALESCE(category, ''),
		       COALESCE(cost, 0), COALESCE(price, 0), COALESCE(stock, 0), COALESCE(image_url, ''),
		       created_at, updated_at
		FROM products WHERE id = ? AND user_id = ?`, id, userID)
	return scanProduct(row)
}

func (s *Store) ListProducts(userID string) ([]*Product, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, COALESCE(sku, ''), COALESCE(description, ''), COALESCE(category, ''),
		       COALESCE(cost, 0), COALESCE(price, 0), COALESCE(stock, 0), COALESCE(image_url, ''),
		       created_at, updated_at
		FROM products WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) UpdateProduct(p *Product) error {
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	result, err := s.db.Exec(`
		UPDATE products
		SET name = ?, sku = ?, description = ?, category = ?, cost = ?, price = ?, stock = ?, image_url = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		p.Name, p.SKU, p.Description, p.Category, p.Cost, p.Price, p.Stock, p.ImageURL, p.UpdatedAt,
		p.ID, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(userID, id string) error {
	result, err := s.db.Exec(`DELETE FROM products WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.SKU, &p.Description, &p.Category,
		&p.Cost, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}
