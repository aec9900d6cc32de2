package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

type WarningRepo struct {
	pool *pgxpool.Pool
}

func NewWarningRepo(pool *pgxpool.Pool) *WarningRepo {
	return &WarningRepo{pool: pool}
}

// CountActive counts a creator's warnings that are uncleared and younger
// than the active window.
func (r *WarningRepo) CountActive(ctx context.Context, creatorID string, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM warnings
		WHERE creator_id = $1 AND cleared_at IS NULL AND created_at > $2`,
		creatorID, since).Scan(&count)
	return count, err
}

// Create persists a new warning.
func (r *WarningRepo) Create(ctx context.Context, w *model.Warning) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO warnings (creator_id, violation_type, strike_level, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		w.CreatorID, w.ViolationType, w.StrikeLevel, w.Metadata, w.CreatedAt).Scan(&w.ID)
}

// ClearExpired marks warnings created before the cutoff and not yet
// cleared as cleared. Idempotent: a second run clears zero rows.
func (r *WarningRepo) ClearExpired(ctx context.Context, before time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE warnings
		SET cleared_at = NOW()
		WHERE cleared_at IS NULL AND created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ListByCreator returns a creator's warnings, newest first.
func (r *WarningRepo) ListByCreator(ctx context.Context, creatorID string) ([]model.Warning, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, creator_id, violation_type, strike_level, COALESCE(metadata, ''), created_at, cleared_at
		FROM warnings
		WHERE creator_id = $1
		ORDER BY created_at DESC`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []model.Warning
	for rows.Next() {
		var w model.Warning
		if err := rows.Scan(&w.ID, &w.CreatorID, &w.ViolationType, &w.StrikeLevel, &w.Metadata, &w.CreatedAt, &w.ClearedAt); err != nil {
			return nil, err
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}
