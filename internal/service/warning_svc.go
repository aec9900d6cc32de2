package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

const (
	// WarningActiveWindow is how long a strike stays active before it
	// expires and no longer counts toward escalation.
	WarningActiveWindow = 30 * 24 * time.Hour

	// ProbationDays is the probation length applied at strike 3.
	ProbationDays = 7
)

// WarningService is the strike escalation state machine:
// ACTIVE --(strike 3)--> PROBATION --(strike 4)--> SUSPENDED.
type WarningService struct {
	warnings WarningStore
	accounts AccountStore
	earnings EarningStore
	notifier Notifier
	cache    *CacheService
}

func NewWarningService(warnings WarningStore, accounts AccountStore, earnings EarningStore, notifier Notifier, cache *CacheService) *WarningService {
	return &WarningService{
		warnings: warnings,
		accounts: accounts,
		earnings: earnings,
		notifier: notifier,
		cache:    cache,
	}
}

// IssueWarning records a strike against a creator and applies the
// escalation action for the resulting level. Strike level is the count
// of currently-active warnings plus one, capped at 4.
func (s *WarningService) IssueWarning(ctx context.Context, creatorID string, violation model.ViolationType, metadata map[string]any) (*model.IssueResult, error) {
	activeSince := time.Now().Add(-WarningActiveWindow)
	active, err := s.warnings.CountActive(ctx, creatorID, activeSince)
	if err != nil {
		return nil, fmt.Errorf("count active warnings: %w", err)
	}

	level := active + 1
	if level > model.MaxStrikeLevel {
		level = model.MaxStrikeLevel
	}

	var meta string
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			meta = string(b)
		}
	}

	w := &model.Warning{
		CreatorID:     creatorID,
		ViolationType: violation,
		StrikeLevel:   level,
		Metadata:      meta,
		CreatedAt:     time.Now(),
	}
	if err := s.warnings.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create warning: %w", err)
	}

	action := model.ActionLogOnly
	switch level {
	case 2:
		action = model.ActionEmailNotify
	case 3:
		action = model.ActionHoldEarnings
		if err := s.ApplyProbation(ctx, creatorID, ProbationDays); err != nil {
			return nil, err
		}
	case model.MaxStrikeLevel:
		action = model.ActionSuspendAccount
		if err := s.suspend(ctx, creatorID); err != nil {
			return nil, err
		}
	}

	// Creators are told about every strike; delivery failures never
	// block the escalation itself.
	notifyAsync(s.notifier, creatorID, violation, metadata)

	log.Printf("warning: creator=%s violation=%s strike=%d action=%s", creatorID, violation, level, action)
	return &model.IssueResult{StrikeLevel: level, Action: action}, nil
}

// ApplyProbation moves a creator to PROBATION for the given number of
// days and holds all of their unpaid earnings.
func (s *WarningService) ApplyProbation(ctx context.Context, creatorID string, days int) error {
	until := time.Now().AddDate(0, 0, days)
	if err := s.accounts.SetProbation(ctx, creatorID, until); err != nil {
		return fmt.Errorf("set probation: %w", err)
	}

	held, err := s.earnings.HoldForCreator(ctx, creatorID)
	if err != nil {
		return fmt.Errorf("hold creator earnings: %w", err)
	}
	if held > 0 {
		log.Printf("warning: held %d unpaid earnings for creator %s", held, creatorID)
	}

	s.invalidateStatus(ctx, creatorID)
	return nil
}

func (s *WarningService) suspend(ctx context.Context, creatorID string) error {
	if err := s.accounts.SetSuspended(ctx, creatorID, time.Now()); err != nil {
		return fmt.Errorf("suspend account: %w", err)
	}
	if _, err := s.earnings.HoldForCreator(ctx, creatorID); err != nil {
		return fmt.Errorf("hold creator earnings: %w", err)
	}
	s.invalidateStatus(ctx, creatorID)
	return nil
}

// ClearExpiredWarnings marks warnings older than the active window as
// cleared and returns how many were cleared. Safe to run repeatedly.
func (s *WarningService) ClearExpiredWarnings(ctx context.Context) (int, error) {
	before := time.Now().Add(-WarningActiveWindow)
	return s.warnings.ClearExpired(ctx, before)
}

// ReinstateExpiredProbations flips creators whose probation window has
// elapsed back to ACTIVE. Explicit operation so the reversion policy is
// visible and testable rather than implied.
func (s *WarningService) ReinstateExpiredProbations(ctx context.Context) (int, error) {
	n, err := s.accounts.ReinstateExpiredProbations(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("reinstate probations: %w", err)
	}
	return n, nil
}

// GetCreatorStatus returns a creator's moderation status. Suspended
// creators cannot earn; probation holds existing earnings but does not
// stop the account from accruing new ones.
func (s *WarningService) GetCreatorStatus(ctx context.Context, creatorID string) (*model.CreatorStatusResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCreatorStatus(ctx, creatorID); err != nil {
			log.Printf("cache: creator status get error: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	a, err := s.accounts.FindByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	resp := &model.CreatorStatusResponse{
		CreatorID:      a.ID,
		Status:         a.Status,
		ProbationUntil: a.ProbationUntil,
		SuspendedAt:    a.SuspendedAt,
		CanEarn:        a.Status != model.StatusSuspended,
	}

	if s.cache != nil {
		if err := s.cache.SetCreatorStatus(ctx, creatorID, resp); err != nil {
			log.Printf("cache: creator status set error: %v", err)
		}
	}
	return resp, nil
}

// ListWarnings returns a creator's warning history.
func (s *WarningService) ListWarnings(ctx context.Context, creatorID string) ([]model.Warning, error) {
	return s.warnings.ListByCreator(ctx, creatorID)
}

func (s *WarningService) invalidateStatus(ctx context.Context, creatorID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCreatorStatus(ctx, creatorID); err != nil {
		log.Printf("cache: creator status invalidate error: %v", err)
	}
}
