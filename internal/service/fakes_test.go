package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

// In-memory store fakes for service tests. Each fake implements just
// enough of its interface to exercise the policy logic above it.

var errNotFound = errors.New("not found")

type fakeEngagements struct {
	records     []model.Engagement
	postCounts  map[string]int
	givenCounts map[string]int
	users       map[string][]model.UserEngagement
	pairs       []model.PodPair
}

func newFakeEngagements() *fakeEngagements {
	return &fakeEngagements{
		postCounts:  make(map[string]int),
		givenCounts: make(map[string]int),
		users:       make(map[string][]model.UserEngagement),
	}
}

func (f *fakeEngagements) Record(_ context.Context, e *model.Engagement) error {
	f.records = append(f.records, *e)
	return nil
}

func (f *fakeEngagements) CountForPostSince(_ context.Context, postID string, _ model.EngagementType, _ time.Time) (int, error) {
	return f.postCounts[postID], nil
}

func (f *fakeEngagements) CountGivenBySince(_ context.Context, userID string, _ time.Time) (int, error) {
	return f.givenCounts[userID], nil
}

func (f *fakeEngagements) GroupByUser(_ context.Context, postID string) ([]model.UserEngagement, error) {
	return f.users[postID], nil
}

func (f *fakeEngagements) SharedPostPairs(_ context.Context, _ time.Time, minShared int) ([]model.PodPair, error) {
	var out []model.PodPair
	for _, p := range f.pairs {
		if p.SharedPosts >= minShared {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAccounts struct {
	accounts map[string]*model.Account
}

func newFakeAccounts(accounts ...*model.Account) *fakeAccounts {
	f := &fakeAccounts{accounts: make(map[string]*model.Account)}
	for _, a := range accounts {
		f.accounts[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) FindByID(_ context.Context, id string) (*model.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, errNotFound
	}
	return a, nil
}

func (f *fakeAccounts) SetProbation(_ context.Context, id string, until time.Time) error {
	a, ok := f.accounts[id]
	if !ok {
		return errNotFound
	}
	a.Status = model.StatusProbation
	a.ProbationUntil = &until
	return nil
}

func (f *fakeAccounts) SetSuspended(_ context.Context, id string, at time.Time) error {
	a, ok := f.accounts[id]
	if !ok {
		return errNotFound
	}
	a.Status = model.StatusSuspended
	a.SuspendedAt = &at
	return nil
}

func (f *fakeAccounts) ReinstateExpiredProbations(_ context.Context, now time.Time) (int, error) {
	n := 0
	for _, a := range f.accounts {
		if a.Status == model.StatusProbation && a.ProbationUntil != nil && !a.ProbationUntil.After(now) {
			a.Status = model.StatusActive
			a.ProbationUntil = nil
			n++
		}
	}
	return n, nil
}

type fakePosts struct {
	mu     sync.Mutex
	posts  map[string]*model.Post
	recent []string
}

func newFakePosts(posts ...*model.Post) *fakePosts {
	f := &fakePosts{posts: make(map[string]*model.Post)}
	for _, p := range posts {
		f.posts[p.ID] = p
		f.recent = append(f.recent, p.ID)
	}
	return f
}

func (f *fakePosts) FindByID(_ context.Context, id string) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

// ClaimForProcessing mirrors the repository's conditional UPDATE: only
// the first caller for an unprocessed post gets true.
func (f *fakePosts) ClaimForProcessing(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return false, errNotFound
	}
	if p.EarningsProcessed {
		return false, nil
	}
	p.EarningsProcessed = true
	return true, nil
}

func (f *fakePosts) RecentIDs(_ context.Context, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

type fakeFlags struct {
	flags []model.Flag
}

func (f *fakeFlags) HasUnresolved(_ context.Context, contentID string, reason model.FlagReason) (bool, error) {
	for _, fl := range f.flags {
		if fl.ContentID == contentID && fl.Reason == reason && !fl.Resolved {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFlags) Create(_ context.Context, fl *model.Flag) (bool, error) {
	// Mirrors the partial unique index: one unresolved flag per
	// (contentId, reason).
	if !fl.Resolved {
		if open, _ := f.HasUnresolved(context.Background(), fl.ContentID, fl.Reason); open {
			return false, nil
		}
	}
	f.flags = append(f.flags, *fl)
	return true, nil
}

func (f *fakeFlags) unresolvedCount(contentID string, reason model.FlagReason) int {
	n := 0
	for _, fl := range f.flags {
		if fl.ContentID == contentID && fl.Reason == reason && !fl.Resolved {
			n++
		}
	}
	return n
}

type fakeWarnings struct {
	warnings []model.Warning
	nextID   int64
}

func (f *fakeWarnings) CountActive(_ context.Context, creatorID string, since time.Time) (int, error) {
	n := 0
	for _, w := range f.warnings {
		if w.CreatorID == creatorID && w.ClearedAt == nil && w.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeWarnings) Create(_ context.Context, w *model.Warning) error {
	f.nextID++
	w.ID = f.nextID
	f.warnings = append(f.warnings, *w)
	return nil
}

func (f *fakeWarnings) ClearExpired(_ context.Context, before time.Time) (int, error) {
	now := time.Now()
	n := 0
	for i := range f.warnings {
		if f.warnings[i].ClearedAt == nil && f.warnings[i].CreatedAt.Before(before) {
			f.warnings[i].ClearedAt = &now
			n++
		}
	}
	return n, nil
}

func (f *fakeWarnings) ListByCreator(_ context.Context, creatorID string) ([]model.Warning, error) {
	var out []model.Warning
	for _, w := range f.warnings {
		if w.CreatorID == creatorID {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeEarnings struct {
	mu       sync.Mutex
	earnings []model.Earning
	nextID   int64
}

func (f *fakeEarnings) SumSince(_ context.Context, creatorID string, since time.Time) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum float64
	for _, e := range f.earnings {
		if e.CreatorID == creatorID && !e.Held && !e.CreatedAt.Before(since) {
			sum += e.Amount
		}
	}
	return sum, nil
}

func (f *fakeEarnings) Create(_ context.Context, e *model.Earning) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	f.earnings = append(f.earnings, *e)
	return nil
}

func (f *fakeEarnings) HoldForPost(_ context.Context, postID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for i := range f.earnings {
		if f.earnings[i].PostID == postID && !f.earnings[i].IsPaid && !f.earnings[i].Held {
			f.earnings[i].Held = true
			n++
		}
	}
	return n, nil
}

func (f *fakeEarnings) HoldForCreator(_ context.Context, creatorID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for i := range f.earnings {
		if f.earnings[i].CreatorID == creatorID && !f.earnings[i].IsPaid && !f.earnings[i].Held {
			f.earnings[i].Held = true
			n++
		}
	}
	return n, nil
}

func (f *fakeEarnings) heldCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.earnings {
		if e.Held {
			n++
		}
	}
	return n
}

func betaConfig() *ModeConfig {
	return NewModeConfig(StaticMode(model.ModeBeta), Overrides{})
}

func naturalConfig() *ModeConfig {
	return NewModeConfig(StaticMode(model.ModeNatural), Overrides{})
}
