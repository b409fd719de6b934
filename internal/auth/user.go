// internal/auth/user.go
package auth

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rcampos/vendahub/internal/db"
)

const (
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	EncryptedPassword string     `json:"-"`
	FirstName         string     `json:"first_name,omitempty"`
	LastName          string     `json:"last_name,omitempty"`
	Role              string     `json:"role"`
	LastSignInAt      *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type Service struct {
	db        *db.DB
	jwtSecret string
}

func NewService(database *db.DB, jwtSecret string) *Service {
	return &Service{db: database, jwtSecret: jwtSecret}
}

func (s *Service) CreateUser(email, password, firstName, lastName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.Exec(`
		INSERT INTO users (id, email, encrypted_password, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, email, string(hash), firstName, lastName, now, now)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("user with email %s already exists", email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetUserByID(id)
}

func (s *Service) GetUserByID(id string) (*User, error) {
	return s.getUser("id = ?", id)
}

func (s *Service) GetUserByEmail(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.getUser("email = ?", email)
}

func (s *Service) getUser(where string, arg any) (*User, error) {
	var user User
	var firstName, lastName sql.NullString
	var lastSignInAt sql.NullString
	var createdAt, updatedAt string

	err := s.db.QueryRow(`
		SELECT id, email, encrypted_password, first_name, last_name, role,
		       last_sign_in_at, created_at, updated_at
		FROM users WHERE `+where, arg).Scan(&user.ID, &user.Email, &user.EncryptedPassword,
		&firstName, &lastName, &user.Role, &lastSignInAt, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.FirstName = firstName.String
	user.LastName = lastName.String
	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	user.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if lastSignInAt.Valid {
		t, _ := time.Parse(time.RFC3339, lastSignInAt.String)
		user.LastSignInAt = &t
	}

	return &user, nil
}

// ValidatePassword checks a plaintext password against the stored hash.
func (s *Service) ValidatePassword(user *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(password)) == nil
}

// UpdateLastSignIn records the current time as the user's last sign in.
func (s *Service) UpdateLastSignIn(userID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec("UPDATE users SET last_sign_in_at = ?, updated_at = ? WHERE id = ?", now, now, userID)
	return err
}

// SetRole changes a user's role.
func (s *Service) SetRole(userID, role string) error {
	if role != RoleSeller && role != RoleAdmin {
		return fmt.Errorf("invalid role: %s", role)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec("UPDATE users SET role = ?, updated_at = ? WHERE id = ?", role, now, userID)
	return err
}
