package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

type FlagRepo struct {
	pool *pgxpool.Pool
}

func NewFlagRepo(pool *pgxpool.Pool) *FlagRepo {
	return &FlagRepo{pool: pool}
}

// HasUnresolved reports whether an unresolved flag for (contentId,
// reason) already exists.
func (r *FlagRepo) HasUnresolved(ctx context.Context, contentID string, reason model.FlagReason) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM flags
			WHERE content_id = $1 AND reason = $2 AND resolved = false
		)`, contentID, reason).Scan(&exists)
	return exists, err
}

// Create inserts a flag. A partial unique index on (content_id, reason)
// WHERE resolved = false enforces the at-most-one-unresolved invariant;
// two detectors racing past the existence check land here and the loser
// gets ON CONFLICT DO NOTHING, reported as created = false.
func (r *FlagRepo) Create(ctx context.Context, f *model.Flag) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO flags (content_id, content_type, reason, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (content_id, reason) WHERE resolved = false DO NOTHING`,
		f.ContentID, f.ContentType, f.Reason, f.Resolved, f.CreatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
