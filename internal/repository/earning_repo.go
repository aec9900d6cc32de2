package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

type EarningRepo struct {
	pool *pgxpool.Pool
}

func NewEarningRepo(pool *pgxpool.Pool) *EarningRepo {
	return &EarningRepo{pool: pool}
}

// SumSince totals a creator's non-held earnings recorded since the given
// time.
func (r *EarningRepo) SumSince(ctx context.Context, creatorID string, since time.Time) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM earnings
		WHERE creator_id = $1 AND held = false AND created_at >= $2`,
		creatorID, since).Scan(&sum)
	return sum, err
}

// Create persists a new earning row. A unique index on earnings(post_id)
// backstops the processing claim: a duplicate insert for the same post
// fails loudly instead of double-paying.
func (r *EarningRepo) Create(ctx context.Context, e *model.Earning) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO earnings (post_id, creator_id, amount, is_paid, held, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		e.PostID, e.CreatorID, e.Amount, e.IsPaid, e.Held, e.CreatedAt).Scan(&e.ID)
}

// HoldForPost marks a post's unpaid, unheld earnings as held. The WHERE
// clause makes a second run a no-op, so holds never double-penalize.
func (r *EarningRepo) HoldForPost(ctx context.Context, postID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE earnings
		SET held = true
		WHERE post_id = $1 AND is_paid = false AND held = false`, postID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// HoldForCreator marks all of a creator's unpaid, unheld earnings as
// held. Idempotent for the same reason as HoldForPost.
func (r *EarningRepo) HoldForCreator(ctx context.Context, creatorID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE earnings
		SET held = true
		WHERE creator_id = $1 AND is_paid = false AND held = false`, creatorID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
