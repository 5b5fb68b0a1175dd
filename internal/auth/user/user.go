// Package user manages user accounts in PostgreSQL: registration with
// bcrypt password hashing, credential verification, and role lookup.
package user

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/1shammah/symptom-checker/pkg/errors"
	"github.com/1shammah/symptom-checker/pkg/postgres"
)

// Roles gating access to administrative endpoints.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User is an account record. The password hash never leaves this package.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Gender    string    `json:"gender"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the Admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Store provides account operations against the users table.
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewStore creates a user store backed by PostgreSQL.
func NewStore(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "user-store"),
	}
}

// Register creates an account with a bcrypt-hashed password. It fails with
// ErrUserExists when the email is already registered and ErrInvalidInput on
// missing fields.
func (s *Store) Register(ctx context.Context, name, email, password, gender string) (*User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "name, email, and password are required")
	}
	if gender == "" {
		gender = "Other"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{Name: name, Email: email, Gender: gender, Role: RoleUser}
	err = s.db.DB.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, gender, role)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO NOTHING
		 RETURNING id, created_at`,
		name, email, string(hash), gender, RoleUser,
	).Scan(&u.ID, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrUserExists, http.StatusConflict, "email %s", email)
	}
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Authenticate verifies the email/password pair and returns the account.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials so
// callers cannot distinguish the two.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var u User
	var hash string
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, gender, role, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &hash, &u.Gender, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &u, nil
}

// ByID fetches an account by its primary key.
func (s *Store) ByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT id, name, email, gender, role, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Gender, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrNotFound, http.StatusNotFound, "user %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}
