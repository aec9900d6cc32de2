package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

// Engagement point weights and the dollar value per quality point.
const (
	likePoints    = 1
	commentPoints = 5
	sharePoints   = 20

	dollarsPerPoint = 0.10

	// nftBonusMultiplier applies to NFT-verified creators.
	nftBonusMultiplier = 1.5
)

// revenueShares are the per-tier revenue shares. The tier multiplier is
// the tier's share relative to STANDARD, rounded to two decimals, so
// STANDARD is exactly 1.0 and GENESIS is 1.36.
var revenueShares = map[model.MembershipTier]float64{
	model.TierStandard: 0.55,
	model.TierSilver:   0.60,
	model.TierGold:     0.65,
	model.TierPlatinum: 0.70,
	model.TierGenesis:  0.75,
}

// EarningsService computes engagement-derived payouts and enforces the
// mode's per-post and daily caps.
type EarningsService struct {
	modes       *ModeConfig
	posts       PostStore
	accounts    AccountStore
	earnings    EarningStore
	diversity   *DiversityService
	warningsSvc *WarningService
}

func NewEarningsService(modes *ModeConfig, posts PostStore, accounts AccountStore, earnings EarningStore, diversity *DiversityService, warningsSvc *WarningService) *EarningsService {
	return &EarningsService{
		modes:       modes,
		posts:       posts,
		accounts:    accounts,
		earnings:    earnings,
		diversity:   diversity,
		warningsSvc: warningsSvc,
	}
}

// QualityScore is the engagement point total for a post's counters.
func QualityScore(likes, comments, shares int) int {
	return likes*likePoints + comments*commentPoints + shares*sharePoints
}

// TierMultiplier returns the revenue-share multiplier for a tier,
// relative to STANDARD. Unknown tiers fall back to STANDARD.
func TierMultiplier(tier model.MembershipTier) float64 {
	share, ok := revenueShares[tier]
	if !ok {
		share = revenueShares[model.TierStandard]
	}
	return math.Round(share/revenueShares[model.TierStandard]*100) / 100
}

// CalculateRawEarnings computes the pre-cap earnings for a post:
// qualityScore x $0.10 x tier multiplier x NFT multiplier.
func (s *EarningsService) CalculateRawEarnings(ctx context.Context, postID, creatorID string) (*model.RawEarnings, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	creator, err := s.accounts.FindByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	quality := QualityScore(post.Likes, post.Comments, post.Shares)
	tierMult := TierMultiplier(creator.MembershipTier)
	nftMult := 1.0
	if creator.IsVerified {
		nftMult = nftBonusMultiplier
	}

	return &model.RawEarnings{
		QualityScore:   quality,
		TierMultiplier: tierMult,
		NFTMultiplier:  nftMult,
		RawEarnings:    float64(quality) * dollarsPerPoint * tierMult * nftMult,
	}, nil
}

// CheckDailyLimit applies the mode's daily cap to a prospective amount.
// BETA skips the cap inside the new-account grace period; NATURAL never
// blocks but records the attempt for observability.
func (s *EarningsService) CheckDailyLimit(ctx context.Context, creatorID string, amount float64) (*model.DailyLimitResult, error) {
	mode := s.modes.CurrentMode()
	caps := s.modes.CapsFor(mode)

	if mode == model.ModeNatural {
		log.Printf("earnings: daily limit check (monitor only) creator=%s amount=%.2f", creatorID, amount)
		return &model.DailyLimitResult{Allowed: true, Monitored: true}, nil
	}

	creator, err := s.accounts.FindByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	graceCutoff := time.Now().AddDate(0, 0, -caps.GracePeriodDays)
	if creator.CreatedAt.After(graceCutoff) {
		return &model.DailyLimitResult{Allowed: true, GracePeriodActive: true}, nil
	}

	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	today, err := s.earnings.SumSince(ctx, creatorID, dayStart)
	if err != nil {
		return nil, fmt.Errorf("sum today's earnings: %w", err)
	}

	if today+amount > caps.Daily {
		return &model.DailyLimitResult{Blocked: true, TodayTotal: today}, nil
	}
	return &model.DailyLimitResult{Allowed: true, TodayTotal: today}, nil
}

// ProcessEarnings computes, caps, and persists the payout for a post.
// The diversity multiplier is applied to the raw amount before caps.
func (s *EarningsService) ProcessEarnings(ctx context.Context, postID, creatorID string) (*model.ProcessResult, error) {
	mode := s.modes.CurrentMode()
	caps := s.modes.CapsFor(mode)

	status, err := s.warningsSvc.GetCreatorStatus(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if !status.CanEarn {
		return &model.ProcessResult{
			Blocked: true,
			Mode:    mode,
			Message: "account is suspended and cannot earn",
		}, nil
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.EarningsProcessed {
		return &model.ProcessResult{
			Mode:    mode,
			Message: "earnings already processed for this post",
		}, nil
	}

	raw, err := s.CalculateRawEarnings(ctx, postID, creatorID)
	if err != nil {
		return nil, err
	}

	if caps.PerPost > 0 && raw.RawEarnings > caps.PerPost {
		return &model.ProcessResult{
			Blocked: true,
			Mode:    mode,
			Details: model.ProcessDetails{PerPostCapExceeded: true},
			Message: fmt.Sprintf("raw earnings $%.2f exceed per-post cap $%.2f", raw.RawEarnings, caps.PerPost),
		}, nil
	}

	mult, err := s.diversity.ApplyDiversityMultiplier(ctx, postID, raw.RawEarnings)
	if err != nil {
		return nil, err
	}
	final := math.Round(mult.AdjustedEarnings*100) / 100

	limit, err := s.CheckDailyLimit(ctx, creatorID, final)
	if err != nil {
		return nil, err
	}
	if limit.Blocked {
		return &model.ProcessResult{
			Blocked: true,
			Mode:    mode,
			Details: model.ProcessDetails{DailyCapExceeded: true},
			Message: fmt.Sprintf("daily cap reached ($%.2f earned today)", limit.TodayTotal),
		}, nil
	}

	// Claim the post before inserting so concurrent calls cannot both
	// pay out. Only the caller whose conditional update lands creates
	// the earning; the loser reports the post as already handled.
	claimed, err := s.posts.ClaimForProcessing(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("claim post for processing: %w", err)
	}
	if !claimed {
		return &model.ProcessResult{
			Mode:    mode,
			Message: "earnings already processed for this post",
		}, nil
	}

	if err := s.earnings.Create(ctx, &model.Earning{
		PostID:    postID,
		CreatorID: creatorID,
		Amount:    final,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("create earning: %w", err)
	}

	log.Printf("earnings: post=%s creator=%s quality=%d raw=%.2f final=%.2f mode=%s",
		postID, creatorID, raw.QualityScore, raw.RawEarnings, final, mode)

	return &model.ProcessResult{
		Success:       true,
		FinalEarnings: final,
		Mode:          mode,
		Details:       model.ProcessDetails{GracePeriodActive: limit.GracePeriodActive},
	}, nil
}
