package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

// VelocityWindow is the rolling window for all engagement rate checks.
const VelocityWindow = time.Hour

// VelocityService detects abnormal engagement rates on posts and abnormal
// giving rates by creators, and gates engagement recording.
type VelocityService struct {
	modes       *ModeConfig
	engagements EngagementStore
	posts       PostStore
	flags       FlagStore
	earnings    EarningStore
	warningsSvc *WarningService
	cache       *CacheService
}

func NewVelocityService(modes *ModeConfig, engagements EngagementStore, posts PostStore, flags FlagStore, earnings EarningStore, warningsSvc *WarningService, cache *CacheService) *VelocityService {
	return &VelocityService{
		modes:       modes,
		engagements: engagements,
		posts:       posts,
		flags:       flags,
		earnings:    earnings,
		warningsSvc: warningsSvc,
		cache:       cache,
	}
}

// CheckEngagementVelocity counts engagements of one type on a post within
// the rolling window and applies the mode's thresholds.
//
// BETA: above the velocity threshold the post is flagged HIGH_VELOCITY
// and its unpaid earnings are held. NATURAL: above the base threshold the
// author is warned; above the extreme threshold the post is additionally
// flagged and held.
func (s *VelocityService) CheckEngagementVelocity(ctx context.Context, postID string, typ model.EngagementType) (*model.VelocityResult, error) {
	mode := s.modes.CurrentMode()
	t := s.modes.ThresholdsFor(mode)
	since := time.Now().Add(-VelocityWindow)

	count, err := s.engagements.CountForPostSince(ctx, postID, typ, since)
	if err != nil {
		return nil, fmt.Errorf("count post engagements: %w", err)
	}

	res := &model.VelocityResult{
		PostID:    postID,
		Type:      typ,
		Count:     count,
		Threshold: t.Velocity,
		Action:    model.ActionAllow,
		Mode:      mode,
	}

	if mode == model.ModeBeta {
		if count > t.Velocity {
			res.Action = model.ActionHold
			res.Flagged = true
			res.Message = fmt.Sprintf("engagement velocity %d exceeds threshold %d; earnings held", count, t.Velocity)
			if err := s.holdAndFlag(ctx, postID); err != nil {
				return nil, err
			}
		}
		return res, nil
	}

	post, findErr := s.posts.FindByID(ctx, postID)

	switch {
	case t.ExtremeVelocity > 0 && count > t.ExtremeVelocity:
		res.Action = model.ActionHold
		res.Flagged = true
		res.Threshold = t.ExtremeVelocity
		res.Message = fmt.Sprintf("extreme engagement velocity %d exceeds threshold %d; earnings held", count, t.ExtremeVelocity)
		if err := s.holdAndFlag(ctx, postID); err != nil {
			return nil, err
		}
		if findErr != nil {
			return nil, findErr
		}
		if _, err := s.warningsSvc.IssueWarning(ctx, post.AuthorID, model.ViolationExtremeEngagementVelocity, map[string]any{
			"postId": postID,
			"count":  count,
		}); err != nil {
			return nil, err
		}
	case count > t.Velocity:
		res.Action = model.ActionWarn
		res.Message = fmt.Sprintf("engagement velocity %d exceeds threshold %d", count, t.Velocity)
		if findErr != nil {
			return nil, findErr
		}
		if _, err := s.warningsSvc.IssueWarning(ctx, post.AuthorID, model.ViolationHighEngagementVelocity, map[string]any{
			"postId": postID,
			"count":  count,
		}); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// CheckCreatorEngagementVelocity counts likes and comments given by a
// creator within the window. BETA blocks further giving above threshold;
// NATURAL only warns.
func (s *VelocityService) CheckCreatorEngagementVelocity(ctx context.Context, creatorID string) (*model.CreatorVelocityResult, error) {
	mode := s.modes.CurrentMode()
	t := s.modes.ThresholdsFor(mode)
	since := time.Now().Add(-VelocityWindow)

	count, err := s.engagements.CountGivenBySince(ctx, creatorID, since)
	if err != nil {
		return nil, fmt.Errorf("count creator engagements: %w", err)
	}

	res := &model.CreatorVelocityResult{
		CreatorID: creatorID,
		Count:     count,
		Threshold: t.CreatorVelocity,
		Action:    model.ActionAllow,
		Mode:      mode,
	}

	if count <= t.CreatorVelocity {
		return res, nil
	}

	if mode == model.ModeBeta {
		res.Action = model.ActionBlock
		res.Message = fmt.Sprintf("engagement giving rate %d exceeds limit %d", count, t.CreatorVelocity)
	} else {
		res.Action = model.ActionWarn
		res.Message = fmt.Sprintf("engagement giving rate %d exceeds threshold %d", count, t.CreatorVelocity)
	}

	if _, err := s.warningsSvc.IssueWarning(ctx, creatorID, model.ViolationExcessiveEngagementGiving, map[string]any{
		"count": count,
	}); err != nil {
		return nil, err
	}

	return res, nil
}

// RecordEngagement gates and persists one engagement. Suspended accounts
// are rejected outright, then the giving rate and post rate are checked;
// only allowed (or warn-level) engagements reach the ledger.
func (s *VelocityService) RecordEngagement(ctx context.Context, req model.EngagementRequest) (*model.RecordResult, error) {
	status, err := s.warningsSvc.GetCreatorStatus(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if status.Status == model.StatusSuspended {
		return &model.RecordResult{
			Blocked: true,
			Message: "account is suspended",
		}, nil
	}

	t := s.modes.Thresholds()
	if req.Type == model.EngagementComment && len(req.Body) < t.MinCommentLen {
		return &model.RecordResult{
			Message: fmt.Sprintf("comment must be at least %d characters", t.MinCommentLen),
		}, nil
	}

	creatorRes, err := s.CheckCreatorEngagementVelocity(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if creatorRes.Action == model.ActionBlock {
		return &model.RecordResult{
			Blocked: true,
			Message: creatorRes.Message,
		}, nil
	}

	postRes, err := s.CheckEngagementVelocity(ctx, req.PostID, req.Type)
	if err != nil {
		return nil, err
	}
	if postRes.Action == model.ActionHold {
		return &model.RecordResult{
			Blocked: true,
			Message: postRes.Message,
		}, nil
	}

	e := &model.Engagement{
		UserID:    req.UserID,
		PostID:    req.PostID,
		Type:      req.Type,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}
	if err := s.engagements.Record(ctx, e); err != nil {
		return nil, fmt.Errorf("record engagement: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateDiversity(ctx, req.PostID); err != nil {
			log.Printf("cache: diversity invalidate error: %v", err)
		}
	}

	result := &model.RecordResult{Success: true}
	if creatorRes.Action == model.ActionWarn {
		result.Warning = creatorRes.Message
	} else if postRes.Action == model.ActionWarn {
		result.Warning = postRes.Message
	}
	return result, nil
}

// holdAndFlag creates a HIGH_VELOCITY flag (unless one is already open)
// and holds the post's unpaid earnings. Both steps are idempotent so a
// concurrent duplicate run cannot double-penalize.
func (s *VelocityService) holdAndFlag(ctx context.Context, postID string) error {
	open, err := s.flags.HasUnresolved(ctx, postID, model.FlagHighVelocity)
	if err != nil {
		return fmt.Errorf("check flag: %w", err)
	}
	if !open {
		created, err := s.flags.Create(ctx, &model.Flag{
			ContentID:   postID,
			ContentType: "POST",
			Reason:      model.FlagHighVelocity,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			return fmt.Errorf("create flag: %w", err)
		}
		if !created {
			log.Printf("velocity: post %s already flagged %s", postID, model.FlagHighVelocity)
		}
	}

	held, err := s.earnings.HoldForPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("hold post earnings: %w", err)
	}
	if held > 0 {
		log.Printf("velocity: held %d unpaid earnings for post %s", held, postID)
	}
	return nil
}
