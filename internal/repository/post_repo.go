package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

// FindByID returns a post with its aggregate counters.
func (r *PostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.pool.QueryRow(ctx, `
		SELECT id, author_id, likes, comments, shares, earnings_processed, created_at
		FROM posts
		WHERE id = $1`, id).Scan(
		&p.ID, &p.AuthorID, &p.Likes, &p.Comments, &p.Shares, &p.EarningsProcessed, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ClaimForProcessing flips earnings_processed only if it is still false.
// The conditional UPDATE makes the claim atomic: of two concurrent
// callers, exactly one sees an affected row.
func (r *PostRepo) ClaimForProcessing(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts SET earnings_processed = true
		WHERE id = $1 AND earnings_processed = false`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RecentIDs returns the newest post IDs, most recent first.
func (r *PostRepo) RecentIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM posts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
