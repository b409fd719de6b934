package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcampos/vendahub/internal/db"
)

func setupTestService(t *testing.T) *Service {
	path := t.TempDir() + "/test.db"
	database, err := db.New(path)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	t.Cleanup(func() { database.Close() })
	return NewService(database, "test-secret")
}

func TestCreateUser(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.CreateUser("Seller@Example.com", "password123", "Ana", "Silva")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "seller@example.com", user.Email)
	assert.Equal(t, "Ana", user.FirstName)
	assert.Equal(t, RoleSeller, user.Role)
	assert.NotEqual(t, "password123", user.EncryptedPassword)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.CreateUser("seller@example.com", "password123", "", "")
	require.NoError(t, err)

	_, err = svc.CreateUser("seller@example.com", "otherpass", "", "")
	assert.ErrorContains(t, err, "already exists")
}

func TestValidatePassword(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.CreateUser("seller@example.com", "password123", "", "")
	require.NoError(t, err)

	assert.True(t, svc.ValidatePassword(user, "password123"))
	assert.False(t, svc.ValidatePassword(user, "wrong"))
}

func TestGetUserByEmail(t *testing.T) {
	svc := setupTestService(t)

	created, err := svc.CreateUser("seller@example.com", "password123", "", "")
	require.NoError(t, err)

	found, err := svc.GetUserByEmail("SELLER@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetUserByEmail("missing@example.com")
	assert.Error(t, err)
}

func TestSetRole(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.CreateUser("admin@example.com", "password123", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.SetRole(user.ID, RoleAdmin))

	updated, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, updated.Role)

	assert.Error(t, svc.SetRole(user.ID, "superuser"))
}
