package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcampos/vendahub/internal/db"
)

func setupTestStore(t *testing.T) (*Store, *db.DB) {
	path := t.TempDir() + "/test.db"
	database, err := db.New(path)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	t.Cleanup(func() { database.Close() })
	return NewStore(database), database
}

func seedUserAndProduct(t *testing.T, database *db.DB, userID, productID string) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := database.Exec(`
		INSERT INTO users (id, email, encrypted_password, created_at, updated_at)
		VALUES (?, ?, 'x', ?, ?)`,
		userID, userID+"@example.com", now, now)
	require.NoError(t, err)

	_, err = database.Exec(`
		INSERT INTO products (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, 'Produto de teste', ?, ?)`,
		productID, userID, now, now)
	require.NoError(t, err)
}

func TestCreateAndListSales(t *testing.T) {
	store, database := setupTestStore(t)
	seedUserAndProduct(t, database, "seller-1", "prod-1")

	sale := &Sale{
		UserID:      "seller-1",
		ProductID:   "prod-1",
		Marketplace: "mercado_livre",
		Quantity:    2,
		Price:       50,
		Fee:         13,
		Profit:      30,
	}
	require.NoError(t, store.Create(sale))
	assert.Equal(t, 100.0, sale.Total)
	assert.NotEmpty(t, sale.SaleDate)

	list, err := store.List("seller-1", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Quantity)
	assert.Equal(t, 100.0, list[0].Total)
}

func TestCreateSaleValidation(t *testing.T) {
	store, database := setupTestStore(t)
	seedUserAndProduct(t, database, "seller-1", "prod-1")

	err := store.Create(&Sale{UserID: "seller-1", ProductID: "prod-1", Marketplace: "shopee", Quantity: 0})
	assert.Error(t, err)

	err = store.Create(&Sale{UserID: "seller-1", Marketplace: "shopee", Quantity: 1})
	assert.Error(t, err)
}

func TestDeleteSale(t *testing.T) {
	store, database := setupTestStore(t)
	seedUserAndProduct(t, database, "seller-1", "prod-1")

	sale := &Sale{UserID: "seller-1", ProductID: "prod-1", Marketplace: "shopee", Quantity: 1, Price: 10}
	require.NoError(t, store.Create(sale))

	require.NoError(t, store.Delete("seller-1", sale.ID))
	assert.ErrorIs(t, store.Delete("seller-1", sale.ID), ErrNotFound)
}

func TestSummarize(t *testing.T) {
	store, database := setupTestStore(t)
	seedUserAndProduct(t, database, "seller-1", "prod-1")

	recent := time.Now().UTC().AddDate(0, 0, -3).Format(time.RFC3339)
	old := time.Now().UTC().AddDate(0, 0, -60).Format(time.RFC3339)

	require.NoError(t, store.Create(&Sale{
		UserID: "seller-1", ProductID: "prod-1", Marketplace: "mercado_livre",
		Quantity: 2, Price: 50, Fee: 13, Profit: 30, SaleDate: recent,
	}))
	require.NoError(t, store.Create(&Sale{
		UserID: "seller-1", ProductID: "prod-1", Marketplace: "shopee",
		Quantity: 1, Price: 80, Fee: 15, Profit: 20, SaleDate: recent,
	}))
	// Outside the 30-day window, must not count
	require.NoError(t, store.Create(&Sale{
		UserID: "seller-1", ProductID: "prod-1", Marketplace: "shopee",
		Quantity: 5, Price: 80, Fee: 15, Profit: 20, SaleDate: old,
	}))

	summary, err := store.Summarize("seller-1", 30)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalSales)
	assert.Equal(t, 3, summary.TotalUnits)
	assert.InDelta(t, 180.0, summary.Revenue, 0.001)
	assert.InDelta(t, 28.0, summary.Fees, 0.001)
	assert.InDelta(t, 50.0, summary.Profit, 0.001)

	require.Contains(t, summary.Marketplaces, "mercado_livre")
	require.Contains(t, summary.Marketplaces, "shopee")
	assert.Equal(t, 2, summary.Marketplaces["mercado_livre"].Units)
	assert.InDelta(t, 100.0, summary.Marketplaces["mercado_livre"].Revenue, 0.001)
	assert.Equal(t, 1, summary.Marketplaces["shopee"].Units)
}

func TestSummarizeEmpty(t *testing.T) {
	store, database := setupTestStore(t)
	seedUserAndProduct(t, database, "seller-1", "prod-1")

	summary, err := store.Summarize("seller-1", 30)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalSales)
	assert.Empty(t, summary.Marketplaces)
}
