// internal/auth/jwt.go
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	AccessTokenExpiry = 3600 // 1 hour
)

func (s *Service) GenerateAccessToken(user *User, sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"aud":        "authenticated",
		"exp":        now.Add(time.Duration(AccessTokenExpiry) * time.Second).Unix(),
		"iat":        now.Unix(),
		"iss":        "vendahub",
		"sub":        user.ID,
		"email":      user.Email,
		"role":       user.Role,
		"session_id": sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *Service) ValidateAccessToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &claims, nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return "v1." + base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *Service) CreateSession(user *User) (*Session, string, error) {
	sessionID := uuid.NewString()
	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.Exec(`
		INSERT INTO sessions (id, user_id, created_at)
		VALUES (?, ?, ?)
	`, sessionID, user.ID, now)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO refresh_tokens (token, user_id, session_id, created_at)
		VALUES (?, ?, ?, ?)
	`, refreshToken, user.ID, sessionID, now)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create refresh token: %w", err)
	}

	session := &Session{
		ID:        sessionID,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}

	return session, refreshToken, nil
}

func (s *Service) RefreshSession(refreshToken string) (*User, *Session, string, error) {
	var userID, sessionID string
	var revoked int

	err := s.db.QueryRow(`
		SELECT user_id, session_id, revoked FROM refresh_tokens WHERE token = ?
	`, refreshToken).Scan(&userID, &sessionID, &revoked)

	if err != nil {
		return nil, nil, "", fmt.Errorf("invalid refresh token")
	}

	if revoked == 1 {
		return nil, nil, "", fmt.Errorf("refresh token has been revoked")
	}

	// Rotate: revoke old token, issue a new one in the same session
	if _, err := s.db.Exec("UPDATE refresh_tokens SET revoked = 1 WHERE token = ?", refreshToken); err != nil {
		return nil, nil, "", fmt.Errorf("failed to revoke old refresh token: %w", err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, nil, "", err
	}

	newToken, err := generateRefreshToken()
	if err != nil {
		return nil, nil, "", err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(`
		INSERT INTO refresh_tokens (token, user_id, session_id, created_at)
		VALUES (?, ?, ?, ?)
	`, newToken, user.ID, sessionID, now)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to create refresh token: %w", err)
	}

	session := &Session{
		ID:        sessionID,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}

	return user, session, newToken, nil
}

func (s *Service) RevokeSession(sessionID string) error {
	_, err := s.db.Exec("UPDATE refresh_tokens SET revoked = 1 WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	_, err = s.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
