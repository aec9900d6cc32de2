package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

const (
	// PodWindow is the trailing window for gaming-pod co-occurrence.
	PodWindow = 30 * 24 * time.Hour

	// PodReportFloor is the suspicion score a pair must exceed to be
	// reported.
	PodReportFloor = 5.0

	// TrendSampleSize is how many recent posts a trend pass analyzes.
	TrendSampleSize = 50

	// BreakdownLimit caps the per-user breakdown listing.
	BreakdownLimit = 20

	// diversityPenaltyScore is the earnings multiplier applied when a
	// BETA-mode post fails the concentration check.
	diversityPenaltyScore = 0.5
)

// Concentration holds the distribution statistics for a post's per-user
// engagement counts.
type Concentration struct {
	Total           int
	Top10Count      int
	Top10Percentage float64
	HHI             float64
}

// ComputeConcentration calculates the top-10 share and Herfindahl index
// for a per-user engagement distribution. Defined for any finite
// distribution including the empty one (all zeros). HHI is the sum of
// squared percentage shares: 10000 when one user owns everything,
// 10000/n for n equal users.
func ComputeConcentration(counts []int) Concentration {
	var c Concentration
	for _, n := range counts {
		c.Total += n
	}
	if c.Total == 0 {
		return c
	}

	sorted := make([]int, len(counts))
	copy(sorted, counts)
	// Descending; distributions are small enough that insertion sort
	// via sort.Slice would be fine, but keep it explicit.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] > sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	top := sorted
	if len(top) > 10 {
		top = top[:10]
	}
	for _, n := range top {
		c.Top10Count += n
	}
	c.Top10Percentage = 100 * float64(c.Top10Count) / float64(c.Total)

	for _, n := range sorted {
		share := 100 * float64(n) / float64(c.Total)
		c.HHI += share * share
	}
	return c
}

// DiversityService detects engagement concentrated in a small set of
// accounts and derives the earnings multiplier from it.
type DiversityService struct {
	modes       *ModeConfig
	engagements EngagementStore
	posts       PostStore
	flags       FlagStore
	warningsSvc *WarningService
	cache       *CacheService
}

func NewDiversityService(modes *ModeConfig, engagements EngagementStore, posts PostStore, flags FlagStore, warningsSvc *WarningService, cache *CacheService) *DiversityService {
	return &DiversityService{
		modes:       modes,
		engagements: engagements,
		posts:       posts,
		flags:       flags,
		warningsSvc: warningsSvc,
		cache:       cache,
	}
}

// interpretConcentration applies mode thresholds to a concentration
// statistic. Pure; side effects stay in CalculateDiversityScore.
func interpretConcentration(mode model.Mode, t Thresholds, c Concentration) (score float64, action model.Action, flagged, shouldWarn bool) {
	if c.Total == 0 {
		return 1.0, model.ActionAllow, false, false
	}

	if mode == model.ModeBeta {
		if c.Top10Percentage > t.Diversity {
			return diversityPenaltyScore, model.ActionApplyPenalty, true, false
		}
		return 1.0, model.ActionAllow, false, false
	}

	if t.ExtremeDiversity > 0 && c.Top10Percentage >= t.ExtremeDiversity {
		// Observation mode never penalizes earnings, it warns.
		return 1.0, model.ActionWarn, true, true
	}
	return 1.0, model.ActionAllow, false, false
}

// CalculateDiversityScore computes the concentration statistics for a
// post and applies the current mode's interpretation, creating flags and
// warnings where the thresholds demand them.
func (s *DiversityService) CalculateDiversityScore(ctx context.Context, postID string) (*model.DiversityResult, error) {
	mode := s.modes.CurrentMode()

	if s.cache != nil {
		if cached, err := s.cache.GetDiversity(ctx, postID, mode); err != nil {
			log.Printf("cache: diversity get error: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	t := s.modes.ThresholdsFor(mode)

	users, err := s.engagements.GroupByUser(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("group engagements: %w", err)
	}
	counts := make([]int, len(users))
	for i, u := range users {
		counts[i] = u.TotalEngagements
	}

	conc := ComputeConcentration(counts)
	score, action, flagged, shouldWarn := interpretConcentration(mode, t, conc)

	res := &model.DiversityResult{
		PostID:           postID,
		TotalEngagements: conc.Total,
		Top10Count:       conc.Top10Count,
		Top10Percentage:  conc.Top10Percentage,
		HHI:              conc.HHI,
		Score:            score,
		Flagged:          flagged,
		ShouldWarn:       shouldWarn,
		Action:           action,
		Mode:             mode,
	}

	switch action {
	case model.ActionApplyPenalty:
		res.Message = fmt.Sprintf("top 10 engagers hold %.1f%% of engagement (threshold %.0f%%); earnings multiplier %.1f", conc.Top10Percentage, t.Diversity, score)
		if err := s.flagLowDiversity(ctx, postID, false); err != nil {
			return nil, err
		}
	case model.ActionWarn:
		res.Message = fmt.Sprintf("top 10 engagers hold %.1f%% of engagement (warn threshold %.0f%%)", conc.Top10Percentage, t.ExtremeDiversity)
		// Informational flag only: auto-resolved, no earnings impact.
		if err := s.flagLowDiversity(ctx, postID, true); err != nil {
			return nil, err
		}
		post, err := s.posts.FindByID(ctx, postID)
		if err != nil {
			return nil, err
		}
		if _, err := s.warningsSvc.IssueWarning(ctx, post.AuthorID, model.ViolationLowEngagementDiversity, map[string]any{
			"postId":          postID,
			"top10Percentage": conc.Top10Percentage,
		}); err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		if err := s.cache.SetDiversity(ctx, postID, mode, res); err != nil {
			log.Printf("cache: diversity set error: %v", err)
		}
	}
	return res, nil
}

// ApplyDiversityMultiplier scales raw earnings by the post's diversity
// score. Only BETA penalties move the multiplier below 1.0.
func (s *DiversityService) ApplyDiversityMultiplier(ctx context.Context, postID string, rawEarnings float64) (*model.MultiplierResult, error) {
	res, err := s.CalculateDiversityScore(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &model.MultiplierResult{
		AdjustedEarnings: rawEarnings * res.Score,
		PenaltyApplied:   res.Score < 1.0,
		WarningIssued:    res.Action == model.ActionWarn,
		DiversityScore:   res,
	}, nil
}

// GetEngagementBreakdown returns the top engagers on a post with their
// per-type tallies, sorted by total engagements descending.
func (s *DiversityService) GetEngagementBreakdown(ctx context.Context, postID string) ([]model.UserEngagement, error) {
	users, err := s.engagements.GroupByUser(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("group engagements: %w", err)
	}
	if len(users) > BreakdownLimit {
		users = users[:BreakdownLimit]
	}
	return users, nil
}

// IdentifyGamingPods finds user pairs with suspicious co-engagement: the
// count of posts both liked within the trailing window, reported when the
// suspicion score clears the floor.
func (s *DiversityService) IdentifyGamingPods(ctx context.Context) ([]model.PodPair, error) {
	t := s.modes.Thresholds()
	since := time.Now().Add(-PodWindow)

	pairs, err := s.engagements.SharedPostPairs(ctx, since, t.MinSharedPosts)
	if err != nil {
		return nil, fmt.Errorf("shared post pairs: %w", err)
	}

	reported := make([]model.PodPair, 0, len(pairs))
	for _, p := range pairs {
		p.SuspicionScore = PodSuspicionScore(p.SharedPosts)
		if p.SuspicionScore > PodReportFloor {
			reported = append(reported, p)
		}
	}
	return reported, nil
}

// PodSuspicionScore maps a shared-post count to a suspicion score.
// Monotonic in sharedPosts; the identity keeps the score interpretable
// as "posts co-liked in the window".
func PodSuspicionScore(sharedPosts int) float64 {
	return float64(sharedPosts)
}

// TrackDiversityTrends samples recent posts and averages their diversity
// scores under the current mode. Read-only: no flags or warnings fire.
func (s *DiversityService) TrackDiversityTrends(ctx context.Context) (*model.TrendsResult, error) {
	mode := s.modes.CurrentMode()
	t := s.modes.ThresholdsFor(mode)

	ids, err := s.posts.RecentIDs(ctx, TrendSampleSize)
	if err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}

	var sum float64
	for _, id := range ids {
		users, err := s.engagements.GroupByUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("group engagements: %w", err)
		}
		counts := make([]int, len(users))
		for i, u := range users {
			counts[i] = u.TotalEngagements
		}
		score, _, _, _ := interpretConcentration(mode, t, ComputeConcentration(counts))
		sum += score
	}

	res := &model.TrendsResult{
		TotalPostsAnalyzed: len(ids),
		Mode:               mode,
	}
	if len(ids) > 0 {
		res.AvgDiversityScore = math.Round(sum/float64(len(ids))*100) / 100
	}
	return res, nil
}

// flagLowDiversity opens (or, for informational use, records a
// pre-resolved) LOW_DIVERSITY flag for a post. Idempotent against the
// unresolved-flag invariant.
func (s *DiversityService) flagLowDiversity(ctx context.Context, postID string, resolved bool) error {
	if !resolved {
		open, err := s.flags.HasUnresolved(ctx, postID, model.FlagLowDiversity)
		if err != nil {
			return fmt.Errorf("check flag: %w", err)
		}
		if open {
			return nil
		}
	}
	created, err := s.flags.Create(ctx, &model.Flag{
		ContentID:   postID,
		ContentType: "POST",
		Reason:      model.FlagLowDiversity,
		Resolved:    resolved,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("create flag: %w", err)
	}
	if !created {
		log.Printf("diversity: post %s already flagged %s", postID, model.FlagLowDiversity)
	}
	return nil
}
