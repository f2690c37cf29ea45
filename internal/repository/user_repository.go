package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/query-service/internal/domain"
)

// ErrDuplicateUsername is returned when an insert hits the unique constraint
// on username.
var ErrDuplicateUsername = errors.New("username already exists")

// UserRepository defines persistence access for accounts. It is the sole
// writer of user rows.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error)
	GetByUsernameAndRole(ctx context.Context, username string, role domain.Role) (*domain.User, error)
	CountAll(ctx context.Context) (int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password, role)
        VALUES ($1, $2, $3)
        RETURNING user_id`

	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	return err
}

// CreateIfAbsent inserts the user unless the username is already taken,
// reporting whether a row was written. Used by bootstrap, where duplicates
// are silently skipped rather than errors.
func (r *userRepository) CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	const query = `
        INSERT INTO users (username, password, role)
        VALUES ($1, $2, $3)
        ON CONFLICT (username) DO NOTHING`

	cmd, err := r.pool.Exec(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Role,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *userRepository) GetByUsernameAndRole(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	const query = `
        SELECT user_id, username, password, role
        FROM users WHERE username=$1 AND role=$2`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, username, role).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsNotFound reports whether err marks an absent row.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
