package service

import (
	"context"
	"time"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

// Narrow persistence interfaces consumed by the policy services. The pgx
// repositories in internal/repository satisfy these; service tests run
// against in-memory fakes.

// EngagementStore is the append-only engagement ledger plus the windowed
// aggregations the detectors read.
type EngagementStore interface {
	// Record appends an engagement and increments the matching post
	// counter atomically.
	Record(ctx context.Context, e *model.Engagement) error
	CountForPostSince(ctx context.Context, postID string, typ model.EngagementType, since time.Time) (int, error)
	CountGivenBySince(ctx context.Context, userID string, since time.Time) (int, error)
	// GroupByUser returns per-user like+comment tallies for a post,
	// sorted by total descending.
	GroupByUser(ctx context.Context, postID string) ([]model.UserEngagement, error)
	// SharedPostPairs returns user pairs that both liked at least
	// minShared common posts since the given time.
	SharedPostPairs(ctx context.Context, since time.Time, minShared int) ([]model.PodPair, error)
}

type AccountStore interface {
	FindByID(ctx context.Context, id string) (*model.Account, error)
	SetProbation(ctx context.Context, id string, until time.Time) error
	SetSuspended(ctx context.Context, id string, at time.Time) error
	// ReinstateExpiredProbations flips PROBATION accounts whose window
	// has elapsed back to ACTIVE and returns how many changed.
	ReinstateExpiredProbations(ctx context.Context, now time.Time) (int, error)
}

type PostStore interface {
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// ClaimForProcessing atomically marks a post as earnings-processed.
	// Returns false when another caller already claimed it, so exactly
	// one concurrent payout attempt wins.
	ClaimForProcessing(ctx context.Context, id string) (bool, error)
	RecentIDs(ctx context.Context, limit int) ([]string, error)
}

type FlagStore interface {
	HasUnresolved(ctx context.Context, contentID string, reason model.FlagReason) (bool, error)
	// Create inserts a flag. Returns false without error when an
	// unresolved flag for the same (contentId, reason) already exists.
	Create(ctx context.Context, f *model.Flag) (bool, error)
}

type WarningStore interface {
	CountActive(ctx context.Context, creatorID string, since time.Time) (int, error)
	Create(ctx context.Context, w *model.Warning) error
	ClearExpired(ctx context.Context, before time.Time) (int, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.Warning, error)
}

type EarningStore interface {
	SumSince(ctx context.Context, creatorID string, since time.Time) (float64, error)
	Create(ctx context.Context, e *model.Earning) error
	// HoldForPost / HoldForCreator mark unpaid, unheld earnings as held.
	// Both are idempotent: re-running holds nothing extra.
	HoldForPost(ctx context.Context, postID string) (int, error)
	HoldForCreator(ctx context.Context, creatorID string) (int, error)
}
