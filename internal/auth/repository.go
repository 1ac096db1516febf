// bytesByHarsh | 2026
// repository.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/bytesByHarsh/go-backend-template/internal/core"
)

type Repository interface {
	Revoke(ctx context.Context, entry *BlacklistEntry) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Revoke is idempotent: revoking a token that is already blacklisted is a
// successful no-op, guaranteed by the unique index on token_hash.
func (r *repository) Revoke(ctx context.Context, entry *BlacklistEntry) error {
	query := `
		INSERT INTO token_blacklist (id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.TokenHash,
		entry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

func (r *repository) IsRevoked(
	ctx context.Context,
	tokenHash string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM token_blacklist WHERE token_hash = $1)`

	var revoked bool
	if err := r.db.GetContext(ctx, &revoked, query, tokenHash); err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return revoked, nil
}

// DeleteExpired prunes entries whose token has passed its natural expiry.
// Pruning is an optimization; an expired token fails verification whether or
// not its blacklist row still exists.
func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM token_blacklist
		WHERE expires_at < $1`

	result, err := r.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired blacklist entries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired blacklist entries: %w", err)
	}

	return rows, nil
}
