package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/userdir/userdir/internal/model"
)

// Common errors for user repository operations.
var (
	ErrEmailExists = errors.New("email already exists")
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

const userColumns = `id, email, created_at`

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// ListUsers returns every user, oldest first.
// The result is never nil so that it encodes as an empty JSON array.
func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return scanUsers(rows)
}

// ListUsersByEmails returns the users whose email is in emails, oldest first.
func (r *Repository) ListUsersByEmails(ctx context.Context, emails []string) ([]model.User, error) {
	if len(emails) == 0 {
		return []model.User{}, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = ANY($1) ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, pq.Array(emails))
	if err != nil {
		return nil, fmt.Errorf("failed to list users by email: %w", err)
	}
	return scanUsers(rows)
}

// CountUsersByEmail returns how many rows carry the given email.
func (r *Repository) CountUsersByEmail(ctx context.Context, email string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = $1`, email).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func scanUsers(rows pgx.Rows) ([]model.User, error) {
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Email, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
