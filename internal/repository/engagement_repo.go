package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

type EngagementRepo struct {
	pool *pgxpool.Pool
}

func NewEngagementRepo(pool *pgxpool.Pool) *EngagementRepo {
	return &EngagementRepo{pool: pool}
}

// counterColumn maps an engagement type to the post counter it bumps.
func counterColumn(typ model.EngagementType) (string, error) {
	switch typ {
	case model.EngagementLike:
		return "likes", nil
	case model.EngagementComment:
		return "comments", nil
	case model.EngagementShare:
		return "shares", nil
	}
	return "", fmt.Errorf("unknown engagement type: %s", typ)
}

// Record appends one engagement and increments the matching post counter
// in a single transaction. The counter update is a relative SET so
// concurrent engagements never undercount.
func (r *EngagementRepo) Record(ctx context.Context, e *model.Engagement) error {
	col, err := counterColumn(e.Type)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO engagements (user_id, post_id, type, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		e.UserID, e.PostID, e.Type, e.Body, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return err
	}

	// col comes from counterColumn, never from input.
	_, err = tx.Exec(ctx, fmt.Sprintf(`
		UPDATE posts SET %s = %s + 1 WHERE id = $1`, col, col),
		e.PostID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CountForPostSince counts engagements of one type on a post within the
// rolling window.
func (r *EngagementRepo) CountForPostSince(ctx context.Context, postID string, typ model.EngagementType, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM engagements
		WHERE post_id = $1 AND type = $2 AND created_at > $3`,
		postID, typ, since).Scan(&count)
	return count, err
}

// CountGivenBySince counts likes and comments given by a user within the
// rolling window.
func (r *EngagementRepo) CountGivenBySince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM engagements
		WHERE user_id = $1 AND type IN ('LIKE', 'COMMENT') AND created_at > $2`,
		userID, since).Scan(&count)
	return count, err
}

// GroupByUser returns per-user like and comment tallies for a post,
// sorted by total engagements descending.
func (r *EngagementRepo) GroupByUser(ctx context.Context, postID string) ([]model.UserEngagement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.user_id,
		       COALESCE(a.username, ''),
		       COALESCE(a.email, ''),
		       COUNT(*) FILTER (WHERE e.type = 'LIKE')    AS likes_given,
		       COUNT(*) FILTER (WHERE e.type = 'COMMENT') AS comments_given,
		       COUNT(*)                                   AS total
		FROM engagements e
		LEFT JOIN accounts a ON a.id = e.user_id
		WHERE e.post_id = $1 AND e.type IN ('LIKE', 'COMMENT')
		GROUP BY e.user_id, a.username, a.email
		ORDER BY total DESC`,
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.UserEngagement
	for rows.Next() {
		var u model.UserEngagement
		if err := rows.Scan(&u.UserID, &u.Username, &u.Email, &u.LikesGiven, &u.CommentsGiven, &u.TotalEngagements); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SharedPostPairs returns user pairs that both liked at least minShared
// common posts since the given time. The u1 < u2 ordering keeps each
// pair unique.
func (r *EngagementRepo) SharedPostPairs(ctx context.Context, since time.Time, minShared int) ([]model.PodPair, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e1.user_id, e2.user_id, COUNT(DISTINCT e1.post_id) AS shared
		FROM engagements e1
		JOIN engagements e2
		  ON e1.post_id = e2.post_id
		 AND e1.user_id < e2.user_id
		 AND e2.type = 'LIKE'
		 AND e2.created_at > $1
		WHERE e1.type = 'LIKE' AND e1.created_at > $1
		GROUP BY e1.user_id, e2.user_id
		HAVING COUNT(DISTINCT e1.post_id) >= $2
		ORDER BY shared DESC`,
		since, minShared)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []model.PodPair
	for rows.Next() {
		var p model.PodPair
		if err := rows.Scan(&p.Users[0], &p.Users[1], &p.SharedPosts); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
