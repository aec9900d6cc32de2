package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// FindByID returns a single account with its activity counters.
func (r *AccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	query := `
		SELECT id, username, COALESCE(email, ''), email_verified, is_admin,
		       membership_tier, is_verified, status, trust_score,
		       probation_until, suspended_at, created_at,
		       post_count, follower_count, following_count, comment_count, like_count
		FROM accounts
		WHERE id = $1`

	var a model.Account
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Username, &a.Email, &a.EmailVerified, &a.IsAdmin,
		&a.MembershipTier, &a.IsVerified, &a.Status, &a.TrustScore,
		&a.ProbationUntil, &a.SuspendedAt, &a.CreatedAt,
		&a.PostCount, &a.FollowerCount, &a.FollowingCount, &a.CommentCount, &a.LikeCount,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SetProbation moves an account to PROBATION until the given time.
func (r *AccountRepo) SetProbation(ctx context.Context, id string, until time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET status = $1, probation_until = $2
		WHERE id = $3`,
		model.StatusProbation, until, id)
	return err
}

// SetSuspended moves an account to SUSPENDED.
func (r *AccountRepo) SetSuspended(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET status = $1, suspended_at = $2
		WHERE id = $3`,
		model.StatusSuspended, at, id)
	return err
}

// ReinstateExpiredProbations flips accounts whose probation window has
// elapsed back to ACTIVE and returns how many changed.
func (r *AccountRepo) ReinstateExpiredProbations(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET status = $1, probation_until = NULL
		WHERE status = $2 AND probation_until IS NOT NULL AND probation_until <= $3`,
		model.StatusActive, model.StatusProbation, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
