package sales

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcampos/vendahub/internal/db"
)

var ErrNotFound = errors.New("not found")

// Sale is a single completed order line on one marketplace.
type Sale struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	ProductID   string  `json:"product_id"`
	ListingID   string  `json:"marketplace_listing_id,omitempty"`
	Marketplace string  `json:"marketplace"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Fee         float64 `json:"fee"`
	Profit      float64 `json:"profit"`
	Total       float64 `json:"total"`
	SaleDate    string  `json:"sale_date"`
	CreatedAt   string  `json:"created_at"`
}

// Summary aggregates a seller's sales over a window.
type Summary struct {
	Days         int                           `json:"days"`
	TotalSales   int                           `json:"total_sales"`
	TotalUnits   int                           `json:"total_units"`
	Revenue      float64                       `json:"revenue"`
	Fees         float64                       `json:"fees"`
	Profit       float64                       `json:"profit"`
	Marketplaces map[string]MarketplaceSummary `json:"marketplaces"`
}

type MarketplaceSummary struct {
	Sales   int     `json:"sales"`
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) Create(sale *Sale) error {
	if sale.ProductID == "" || sale.Marketplace == "" {
		return fmt.Errorf("product_id and marketplace are required")
	}
	if sale.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	if sale.SaleDate == "" {
		sale.SaleDate = time.Now().UTC().Format(time.RFC3339)
	}
	if sale.Total == 0 {
		sale.Total = sale.Price * float64(sale.Quantity)
	}
	sale.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	var listingID any
	if sale.ListingID != "" {
		listingID = sale.ListingID
	}

	_, err := s.db.Exec(`
		INSERT INTO sales (id, user_id, product_id, marketplace_listing_id, marketplace, quantity, price, fee, profit, total, sale_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.UserID, sale.ProductID, listingID, sale.Marketplace,
		sale.Quantity, sale.Price, sale.Fee, sale.Profit, sale.Total, sale.SaleDate, sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	return nil
}

func (s *Store) List(userID string, limit int) ([]*Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, user_id, product_id, COALESCE(marketplace_listing_id, ''), marketplace,
		       quantity, price, COALESCE(fee, 0), COALESCE(profit, 0), total, sale_date, created_at
		FROM sales WHERE user_id = ? ORDER BY sale_date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	result := []*Sale{}
	for rows.Next() {
		var sale Sale
		err := rows.Scan(&sale.ID, &sale.UserID, &sale.ProductID, &sale.ListingID, &sale.Marketplace,
			&sale.Quantity, &sale.Price, &sale.Fee, &sale.Profit, &sale.Total, &sale.SaleDate, &sale.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		result = append(result, &sale)
	}
	return result, rows.Err()
}

func (s *Store) Delete(userID, id string) error {
	result, err := s.db.Exec(`DELETE FROM sales WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Summarize aggregates the user's sales whose sale_date falls within the
// last `days` days, broken down per marketplace.
func (s *Store) Summarize(userID string, days int) (*Summary, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)

	rows, err := s.db.Query(`
		SELECT marketplace, COUNT(*), SUM(quantity), SUM(total), SUM(COALESCE(fee, 0)), SUM(COALESCE(profit, 0))
		FROM sales WHERE user_id = ? AND sale_date >= ?
		GROUP BY marketplace`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize sales: %w", err)
	}
	defer rows.Close()

	summary := &Summary{
		Days:         days,
		Marketplaces: map[string]MarketplaceSummary{},
	}
	for rows.Next() {
		var marketplace string
		var count, units int
		var revenue, fees, profit sql.NullFloat64
		if err := rows.Scan(&marketplace, &count, &units, &revenue, &fees, &profit); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}

		summary.TotalSales += count
		summary.TotalUnits += units
		summary.Revenue += revenue.Float64
		summary.Fees += fees.Float64
		summary.Profit += profit.Float64
		summary.Marketplaces[marketplace] = MarketplaceSummary{
			Sales:   count,
			Units:   units,
			Revenue: revenue.Float64,
			Profit:  profit.Float64,
		}
	}
	return summary, rows.Err()
}
