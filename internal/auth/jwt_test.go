package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRefreshToken(t *testing.T) {
	first, err := generateRefreshToken()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "v1."))
	// 32 random bytes, base64url without padding
	assert.Len(t, first, len("v1.")+43)

	second, err := generateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.CreateUser("seller@example.com", "password123", "", "")
	require.NoError(t, err)

	session, _, err := svc.CreateSession(user)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(user, session.ID)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, (*claims)["sub"])
	assert.Equal(t, user.Email, (*claims)["email"])
	assert.Equal(t, session.ID, (*claims)["session_id"])
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.CreateUser("seller@example.com", "password123", "", "")
	require.NoError(t, err)

	other := NewService(svc.db, "other-secret")
	token, err := other.GenerateAccessToken(user, "session-1")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestRefreshSessionRotatesToken(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.CreateUser("seller@example.com", "password123", "", "")
	require.NoError(t, err)

	session, refreshToken, err := svc.CreateSession(user)
	require.NoError(t, err)

	refreshedUser, refreshedSession, newToken, err := svc.RefreshSession(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshedUser.ID)
	assert.Equal(t, session.ID, refreshedSession.ID)
	assert.NotEqual(t, refreshToken, newToken)

	// Old token is revoked
	_, _, _, err = svc.RefreshSession(refreshToken)
	assert.Error(t, err)
}

func TestRevokeSession(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.CreateUser("seller@example.com", "password123", "", "")
	require.NoError(t, err)

	session, refreshToken, err := svc.CreateSession(user)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeSession(session.ID))

	_, _, _, err = svc.RefreshSession(refreshToken)
	assert.Error(t, err)
}
