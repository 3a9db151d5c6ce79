package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-admission/internal/domain"
)

// UserRepository resolves users tickets can be assigned to. A missing user is
// reported as found=false with a nil error.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (domain.User, bool, error)
	GetAccountManager(ctx context.Context) (domain.User, bool, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `username, first_name, last_name, email, password_hash, is_account_manager, created_at`

func (r *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *userRepository) GetAccountManager(ctx context.Context) (domain.User, bool, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE is_account_manager LIMIT 1`
	return r.fetchSingle(ctx, query)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, args ...any) (domain.User, bool, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.IsAccountManager,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return user, true, nil
}
