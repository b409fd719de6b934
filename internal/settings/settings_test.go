package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcampos/vendahub/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	path := t.TempDir() + "/test.db"
	database, err := db.New(path)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestSetAndGet(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Set("content_model", "gpt-4o-mini"))

	got, err := store.Get("content_model")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", got.Value)
}

func TestSetOverwrites(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Set("k", "v1"))
	require.NoError(t, store.Set("k", "v2"))

	got, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Value)

	all, err := store.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get("absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetRequiresKey(t *testing.T) {
	store := setupTestStore(t)
	assert.Error(t, store.Set("", "v"))
}
