package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/pkg/database"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = "uid, email, display_name, photo_url, role, verified, is_fraud, created_at, last_login_at"

// Upsert inserts the user or, when the UID already exists, refreshes the
// profile fields and last-login timestamp. Role, verified and fraud flags
// are owned by admins and untouched on conflict. The returned bool is true
// when the row was inserted; xmax is zero only for rows never updated by
// another transaction, which distinguishes the insert from the update arm.
func (r *UserRepository) Upsert(ctx context.Context, u *domain.User) (*domain.User, bool, error) {
	query := `
		INSERT INTO users (uid, email, display_name, photo_url, role, verified, is_fraud, created_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (uid) DO UPDATE
		SET email = EXCLUDED.email,
		    display_name = EXCLUDED.display_name,
		    photo_url = EXCLUDED.photo_url,
		    last_login_at = EXCLUDED.last_login_at
		RETURNING ` + userColumns + `, (xmax = 0) AS inserted`

	var stored domain.User
	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		u.UID,
		u.Email,
		u.DisplayName,
		u.PhotoURL,
		u.Role,
		u.Verified,
		u.IsFraud,
		u.CreatedAt,
		u.LastLoginAt,
	).Scan(
		&stored.UID,
		&stored.Email,
		&stored.DisplayName,
		&stored.PhotoURL,
		&stored.Role,
		&stored.Verified,
		&stored.IsFraud,
		&stored.CreatedAt,
		&stored.LastLoginAt,
		&inserted,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, false, apperrors.AlreadyExists("user", "email", u.Email)
		}
		return nil, false, fmt.Errorf("upsert user: %w", err)
	}

	return &stored, inserted, nil
}

// GetByUID retrieves a user by their provider-issued UID.
func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, uid).Scan(
		&u.UID,
		&u.Email,
		&u.DisplayName,
		&u.PhotoURL,
		&u.Role,
		&u.Verified,
		&u.IsFraud,
		&u.CreatedAt,
		&u.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// List returns all users ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.UID,
			&u.Email,
			&u.DisplayName,
			&u.PhotoURL,
			&u.Role,
			&u.Verified,
			&u.IsFraud,
			&u.CreatedAt,
			&u.LastLoginAt,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

// UpdateRole changes a user's role.
func (r *UserRepository) UpdateRole(ctx context.Context, uid, role string) error {
	query := `UPDATE users SET role = $1 WHERE uid = $2`

	ct, err := r.pool.Exec(ctx, query, role, uid)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", uid)
	}

	return nil
}

// SetFraud flags or unflags a user as fraudulent.
func (r *UserRepository) SetFraud(ctx context.Context, uid string, isFraud bool) error {
	query := `UPDATE users SET is_fraud = $1 WHERE uid = $2`

	ct, err := r.pool.Exec(ctx, query, isFraud, uid)
	if err != nil {
		return fmt.Errorf("set user fraud flag: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", uid)
	}

	return nil
}

// Delete removes a user from the database.
func (r *UserRepository) Delete(ctx context.Context, uid string) error {
	query := `DELETE FROM users WHERE uid = $1`

	ct, err := r.pool.Exec(ctx, query, uid)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", uid)
	}

	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
