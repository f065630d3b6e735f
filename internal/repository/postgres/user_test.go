package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/pkg/database"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
)

// --- Test Helpers ---

func newTestUserRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewUserRepository(mock)
	return repo, mock
}

func sampleUser() *domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.User{
		UID:         "uid-001",
		Email:       "jane@example.com",
		DisplayName: "Jane Smith",
		PhotoURL:    "https://cdn.example.com/jane.png",
		Role:        domain.RoleUser,
		Verified:    false,
		IsFraud:     false,
		CreatedAt:   now,
		LastLoginAt: now,
	}
}

func userRows(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"uid", "email", "display_name", "photo_url", "role",
		"verified", "is_fraud", "created_at", "last_login_at",
	}).AddRow(
		u.UID, u.Email, u.DisplayName, u.PhotoURL, u.Role,
		u.Verified, u.IsFraud, u.CreatedAt, u.LastLoginAt,
	)
}

// upsertRows mirrors the Upsert RETURNING clause, which appends the
// (xmax = 0) insert indicator to the user columns.
func upsertRows(u *domain.User, inserted bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"uid", "email", "display_name", "photo_url", "role",
		"verified", "is_fraud", "created_at", "last_login_at", "inserted",
	}).AddRow(
		u.UID, u.Email, u.DisplayName, u.PhotoURL, u.Role,
		u.Verified, u.IsFraud, u.CreatedAt, u.LastLoginAt, inserted,
	)
}

// --- Upsert Tests ---

func TestUserRepository_Upsert_NewUser(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	u := sampleUser()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			u.UID, u.Email, u.DisplayName, u.PhotoURL, u.Role,
			u.Verified, u.IsFraud, u.CreatedAt, u.LastLoginAt,
		).
		WillReturnRows(upsertRows(u, true))

	stored, created, err := repo.Upsert(context.Background(), u)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.True(t, created)
	assert.Equal(t, "uid-001", stored.UID)
	assert.Equal(t, "jane@example.com", stored.Email)
	assert.Equal(t, domain.RoleUser, stored.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Upsert_KeepsStoredRole(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	u := sampleUser()

	// The row already exists with an elevated role; the RETURNING clause
	// surfaces the stored row, not the incoming defaults.
	stored := *u
	stored.Role = domain.RoleAgent

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			u.UID, u.Email, u.DisplayName, u.PhotoURL, u.Role,
			u.Verified, u.IsFraud, u.CreatedAt, u.LastLoginAt,
		).
		WillReturnRows(upsertRows(&stored, false))

	got, created, err := repo.Upsert(context.Background(), u)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, domain.RoleAgent, got.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Upsert_UniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	u := sampleUser()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			u.UID, u.Email, u.DisplayName, u.PhotoURL, u.Role,
			u.Verified, u.IsFraud, u.CreatedAt, u.LastLoginAt,
		).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	got, created, err := repo.Upsert(context.Background(), u)
	assert.Nil(t, got)
	assert.False(t, created)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Upsert_QueryError(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	u := sampleUser()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			u.UID, u.Email, u.DisplayName, u.PhotoURL, u.Role,
			u.Verified, u.IsFraud, u.CreatedAt, u.LastLoginAt,
		).
		WillReturnError(errors.New("connection refused"))

	got, created, err := repo.Upsert(context.Background(), u)
	assert.Nil(t, got)
	assert.False(t, created)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "upsert user")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- GetByUID Tests ---

func TestUserRepository_GetByUID_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	u := sampleUser()

	mock.ExpectQuery("SELECT").
		WithArgs("uid-001").
		WillReturnRows(userRows(u))

	got, err := repo.GetByUID(context.Background(), "uid-001")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "uid-001", got.UID)
	assert.Equal(t, "Jane Smith", got.DisplayName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUID_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectQuery("SELECT").
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByUID(context.Background(), "nonexistent")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- List Tests ---

func TestUserRepository_List_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows([]string{
		"uid", "email", "display_name", "photo_url", "role",
		"verified", "is_fraud", "created_at", "last_login_at",
	}).
		AddRow("uid-001", "jane@example.com", "Jane Smith", "", domain.RoleUser, false, false, now, now).
		AddRow("uid-002", "mark@example.com", "Mark Agent", "", domain.RoleAgent, true, false, now, now)

	mock.ExpectQuery("SELECT .+ FROM users").
		WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "uid-001", users[0].UID)
	assert.Equal(t, domain.RoleAgent, users[1].Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_Empty(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	rows := pgxmock.NewRows([]string{
		"uid", "email", "display_name", "photo_url", "role",
		"verified", "is_fraud", "created_at", "last_login_at",
	})

	mock.ExpectQuery("SELECT .+ FROM users").
		WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users) // should be [] not nil

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- UpdateRole Tests ---

func TestUserRepository_UpdateRole_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("UPDATE users").
		WithArgs(domain.RoleAgent, "uid-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateRole(context.Background(), "uid-001", domain.RoleAgent)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRole_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("UPDATE users").
		WithArgs(domain.RoleAdmin, "nonexistent").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateRole(context.Background(), "nonexistent", domain.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- SetFraud Tests ---

func TestUserRepository_SetFraud_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("UPDATE users").
		WithArgs(true, "uid-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetFraud(context.Background(), "uid-001", true)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetFraud_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("UPDATE users").
		WithArgs(false, "nonexistent").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetFraud(context.Background(), "nonexistent", false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- Delete Tests ---

func TestUserRepository_Delete_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("DELETE FROM users").
		WithArgs("uid-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "uid-001")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("DELETE FROM users").
		WithArgs("nonexistent").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_ExecError(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("DELETE FROM users").
		WithArgs("uid-001").
		WillReturnError(errors.New("write conflict"))

	err := repo.Delete(context.Background(), "uid-001")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "delete user")

	assert.NoError(t, mock.ExpectationsWereMet())
}
