package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auth-service/internal/domain"
)

// ErrEmailTaken is returned by Create when the email uniqueness constraint
// rejects the insert. The constraint lives in the database so two racing
// sign-ups with the same email resolve there, not in application code.
var ErrEmailTaken = errors.New("email has already been taken")

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	TouchSignIn(ctx context.Context, user *domain.User, ip string, at time.Time) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const uniqueViolationCode = "23505"

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, first_name, last_name, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, email, first_name, last_name, password_hash,
               sign_in_count, current_sign_in_at, last_sign_in_at,
               current_sign_in_ip, last_sign_in_ip, created_at, updated_at
        FROM users WHERE id=$1`

	return r.scanUser(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, first_name, last_name, password_hash,
               sign_in_count, current_sign_in_at, last_sign_in_at,
               current_sign_in_ip, last_sign_in_ip, created_at, updated_at
        FROM users WHERE email=$1`

	return r.scanUser(ctx, query, email)
}

// TouchSignIn records a successful sign-in: the previous current_* values
// shift to last_* and the counter increments.
func (r *userRepository) TouchSignIn(ctx context.Context, user *domain.User, ip string, at time.Time) error {
	const query = `
        UPDATE users SET
            sign_in_count = sign_in_count + 1,
            last_sign_in_at = current_sign_in_at,
            last_sign_in_ip = current_sign_in_ip,
            current_sign_in_at = $1,
            current_sign_in_ip = $2,
            updated_at = NOW()
        WHERE id=$3
        RETURNING sign_in_count, current_sign_in_at, last_sign_in_at,
                  current_sign_in_ip, last_sign_in_ip, updated_at`

	var currentIP, lastIP *string
	err := r.pool.QueryRow(ctx, query, at, ip, user.ID).Scan(
		&user.SignInCount,
		&user.CurrentSignInAt,
		&user.LastSignInAt,
		&currentIP,
		&lastIP,
		&user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if currentIP != nil {
		user.CurrentSignInIP = *currentIP
	}
	if lastIP != nil {
		user.LastSignInIP = *lastIP
	}
	return nil
}

func (r *userRepository) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	var currentIP, lastIP *string
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.SignInCount,
		&user.CurrentSignInAt,
		&user.LastSignInAt,
		&currentIP,
		&lastIP,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if currentIP != nil {
		user.CurrentSignInIP = *currentIP
	}
	if lastIP != nil {
		user.LastSignInIP = *lastIP
	}
	return &user, nil
}
