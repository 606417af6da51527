package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Denylist is the revocation store: a durable set of token identifiers
// that must be rejected even while their signatures still verify.
type Denylist interface {
	// Add records a revoked token id until its natural expiry. Adding an
	// id that is already present succeeds without changing the entry.
	Add(ctx context.Context, tokenID string, expiresAt time.Time) error

	// Contains reports whether the token id has been revoked.
	Contains(ctx context.Context, tokenID string) (bool, error)
}

// DenylistPurger is implemented by denylist backends whose entries need
// explicit garbage collection once token expiry has passed.
type DenylistPurger interface {
	// Purge deletes entries expired as of now and returns how many went.
	Purge(ctx context.Context, now time.Time) (int64, error)
}

type denylistRepository struct {
	pool *pgxpool.Pool
}

// NewDenylistRepository returns a Postgres-backed denylist. It also
// implements DenylistPurger.
func NewDenylistRepository(pool *pgxpool.Pool) Denylist {
	return &denylistRepository{pool: pool}
}

// Add is an upsert: ON CONFLICT DO NOTHING makes concurrent identical
// inserts race-free at the storage layer and leaves the first write's
// expiry in place.
func (r *denylistRepository) Add(ctx context.Context, tokenID string, expiresAt time.Time) error {
	const query = `
        INSERT INTO jwt_denylist (jti, expires_at)
        VALUES ($1, $2)
        ON CONFLICT (jti) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, tokenID, expiresAt)
	return err
}

func (r *denylistRepository) Contains(ctx context.Context, tokenID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM jwt_denylist WHERE jti=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, tokenID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Purge removes entries whose tokens have already expired; the expiry
// check rejects those tokens regardless, so this only bounds table growth.
// A predicate delete stays safe under concurrent Add calls.
func (r *denylistRepository) Purge(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM jwt_denylist WHERE expires_at <= $1`

	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
