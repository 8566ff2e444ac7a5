package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrAdminNotFound signals that the admin account does not exist.
	ErrAdminNotFound = errors.New("auth: admin not found")
	// ErrDuplicateUsername signals that the username is already taken.
	ErrDuplicateUsername = errors.New("auth: username already exists")
)

// Repository handles data access for moderation accounts.
type Repository interface {
	CreateAdmin(ctx context.Context, params CreateAdminParams) (Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (Admin, error)
	GetAdminByID(ctx context.Context, adminID string) (Admin, error)
}

// CreateAdminParams contains write parameters for creating admin accounts.
type CreateAdminParams struct {
	Username     string
	PasswordHash string
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed auth repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateAdmin inserts a new moderation account with a hashed password.
func (r *PGRepository) CreateAdmin(ctx context.Context, params CreateAdminParams) (Admin, error) {
	const insertSQL = `
		INSERT INTO admins (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, created_at, updated_at
	`

	admin, err := scanAdmin(r.pool.QueryRow(ctx, insertSQL, params.Username, params.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Admin{}, ErrDuplicateUsername
		}
		return Admin{}, fmt.Errorf("auth: create admin: %w", err)
	}

	return admin, nil
}

// GetAdminByUsername retrieves an account by username.
func (r *PGRepository) GetAdminByUsername(ctx context.Context, username string) (Admin, error) {
	const selectSQL = `
		SELECT id, username, password_hash, created_at, updated_at
		FROM admins
		WHERE username = $1
	`

	admin, err := scanAdmin(r.pool.QueryRow(ctx, selectSQL, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admin{}, ErrAdminNotFound
		}
		return Admin{}, fmt.Errorf("auth: get admin by username: %w", err)
	}

	return admin, nil
}

// GetAdminByID retrieves an account by ID.
func (r *PGRepository) GetAdminByID(ctx context.Context, adminID string) (Admin, error) {
	const selectSQL = `
		SELECT id, username, password_hash, created_at, updated_at
		FROM admins
		WHERE id = $1
	`

	admin, err := scanAdmin(r.pool.QueryRow(ctx, selectSQL, adminID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admin{}, ErrAdminNotFound
		}
		return Admin{}, fmt.Errorf("auth: get admin by id: %w", err)
	}

	return admin, nil
}

func scanAdmin(row pgx.Row) (Admin, error) {
	var admin Admin
	err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return Admin{}, err
	}
	return admin, nil
}
