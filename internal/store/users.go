package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gadget-rental/internal/models"
)

// CreateUser inserts a user; a taken email yields ErrDuplicate
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, phone, address, is_admin, is_verified, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, trust_score, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Phone, user.Address,
		user.IsAdmin, user.IsVerified, user.IsActive,
	).Scan(&user.ID, &user.TrustScore, &user.CreatedAt)
	return translate(err)
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, ignoring case
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE LOWER(email) = LOWER($1)", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile saves the user-editable profile fields
func (s *Store) UpdateProfile(ctx context.Context, user *models.User) error {
	n, err := affected(s.db.ExecContext(ctx,
		"UPDATE users SET name = $1, email = $2, phone = $3, address = $4 WHERE id = $5",
		user.Name, user.Email, user.Phone, user.Address, user.ID))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
	}
	return nil
}

// ListCustomers returns non-admin users, newest first
func (s *Store) ListCustomers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users,
		"SELECT * FROM users WHERE is_admin = FALSE ORDER BY created_at DESC")
	return users, err
}

// ListAdmins returns all administrators
func (s *Store) ListAdmins(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users WHERE is_admin = TRUE ORDER BY id")
	return users, err
}

// ListUserIDs returns the id of every account
func (s *Store) ListUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids, "SELECT id FROM users ORDER BY id")
	return ids, err
}

// SetUserVerified flags a user as verified; it reports false if they already were
func (s *Store) SetUserVerified(ctx context.Context, id int64) (bool, error) {
	return s.flipUserFlag(ctx, id,
		"UPDATE users SET is_verified = TRUE WHERE id = $1 AND is_verified = FALSE")
}

// DeactivateUser disables login for a user; it reports false if already inactive
func (s *Store) DeactivateUser(ctx context.Context, id int64) (bool, error) {
	return s.flipUserFlag(ctx, id,
		"UPDATE users SET is_active = FALSE WHERE id = $1 AND is_active = TRUE")
}

func (s *Store) flipUserFlag(ctx context.Context, id int64, query string) (bool, error) {
	n, err := affected(s.db.ExecContext(ctx, query, id))
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
