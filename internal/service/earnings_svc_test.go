package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name                    string
		likes, comments, shares int
		want                    int
	}{
		{"likes only", 100, 0, 0, 100},
		{"comments weigh 5x", 0, 10, 0, 50},
		{"shares weigh 20x", 0, 0, 5, 100},
		{"mixed", 10, 5, 2, 75},
		{"zero engagement", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QualityScore(tt.likes, tt.comments, tt.shares); got != tt.want {
				t.Errorf("QualityScore(%d, %d, %d) = %d, want %d", tt.likes, tt.comments, tt.shares, got, tt.want)
			}
		})
	}
}

func TestTierMultiplier(t *testing.T) {
	tests := []struct {
		tier model.MembershipTier
		want float64
	}{
		{model.TierStandard, 1.0},
		{model.TierSilver, 1.09},
		{model.TierGold, 1.18},
		{model.TierPlatinum, 1.27},
		{model.TierGenesis, 1.36},
		{"UNKNOWN", 1.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			if got := TierMultiplier(tt.tier); got != tt.want {
				t.Errorf("TierMultiplier(%s) = %.2f, want %.2f", tt.tier, got, tt.want)
			}
		})
	}
}

type earningsFixture struct {
	svc         *EarningsService
	engagements *fakeEngagements
	accounts    *fakeAccounts
	posts       *fakePosts
	earnings    *fakeEarnings
}

func newEarningsFixture(modes *ModeConfig, post *model.Post, creator *model.Account) *earningsFixture {
	engagements := newFakeEngagements()
	accounts := newFakeAccounts(creator)
	posts := newFakePosts(post)
	earnings := &fakeEarnings{}
	warningSvc := NewWarningService(&fakeWarnings{}, accounts, earnings, nil, nil)
	diversitySvc := NewDiversityService(modes, engagements, posts, &fakeFlags{}, warningSvc, nil)
	svc := NewEarningsService(modes, posts, accounts, earnings, diversitySvc, warningSvc)
	return &earningsFixture{
		svc:         svc,
		engagements: engagements,
		accounts:    accounts,
		posts:       posts,
		earnings:    earnings,
	}
}

func standardCreator() *model.Account {
	return &model.Account{
		ID:             "creator-1",
		MembershipTier: model.TierStandard,
		Status:         model.StatusActive,
		CreatedAt:      time.Now().AddDate(0, 0, -30),
	}
}

func TestCalculateRawEarnings_StandardUnverified(t *testing.T) {
	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1", Likes: 100},
		standardCreator())

	raw, err := f.svc.CalculateRawEarnings(context.Background(), "post-1", "creator-1")
	if err != nil {
		t.Fatalf("CalculateRawEarnings: %v", err)
	}

	if raw.QualityScore != 100 {
		t.Errorf("quality = %d, want 100", raw.QualityScore)
	}
	// 100 points x $0.10 x 1.0 x 1.0
	if !almostEqual(raw.RawEarnings, 10.0, 0.001) {
		t.Errorf("raw = %.2f, want 10.00", raw.RawEarnings)
	}
}

func TestCalculateRawEarnings_GenesisVerified(t *testing.T) {
	creator := standardCreator()
	creator.MembershipTier = model.TierGenesis
	creator.IsVerified = true

	// quality = 200 + 70*5 + 20*20 = 950
	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1", Likes: 200, Comments: 70, Shares: 20},
		creator)

	raw, err := f.svc.CalculateRawEarnings(context.Background(), "post-1", "creator-1")
	if err != nil {
		t.Fatalf("CalculateRawEarnings: %v", err)
	}

	if raw.QualityScore != 950 {
		t.Errorf("quality = %d, want 950", raw.QualityScore)
	}
	if raw.TierMultiplier != 1.36 || raw.NFTMultiplier != 1.5 {
		t.Errorf("multipliers = %.2f/%.2f, want 1.36/1.50", raw.TierMultiplier, raw.NFTMultiplier)
	}
	// 950 x $0.10 x 1.36 x 1.5 = $193.80
	if !almostEqual(raw.RawEarnings, 193.80, 0.01) {
		t.Errorf("raw = %.2f, want 193.80", raw.RawEarnings)
	}
}

func TestCheckDailyLimit_NaturalMonitorsOnly(t *testing.T) {
	f := newEarningsFixture(naturalConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1"},
		standardCreator())
	f.earnings.earnings = []model.Earning{
		{ID: 1, CreatorID: "creator-1", Amount: 900, CreatedAt: time.Now()},
	}

	res, err := f.svc.CheckDailyLimit(context.Background(), "creator-1", 500)
	if err != nil {
		t.Fatalf("CheckDailyLimit: %v", err)
	}
	if !res.Allowed || !res.Monitored || res.Blocked {
		t.Errorf("natural daily limit = %+v, want allowed+monitored", res)
	}
}

func TestCheckDailyLimit_BetaGracePeriod(t *testing.T) {
	creator := standardCreator()
	creator.CreatedAt = time.Now().AddDate(0, 0, -1) // inside the 3-day grace window

	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1"},
		creator)
	f.earnings.earnings = []model.Earning{
		{ID: 1, CreatorID: "creator-1", Amount: 495, CreatedAt: time.Now()},
	}

	res, err := f.svc.CheckDailyLimit(context.Background(), "creator-1", 50)
	if err != nil {
		t.Fatalf("CheckDailyLimit: %v", err)
	}
	if !res.Allowed || !res.GracePeriodActive {
		t.Errorf("grace period result = %+v, want allowed with grace active", res)
	}
}

func TestCheckDailyLimit_BetaBlocksOverCap(t *testing.T) {
	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1"},
		standardCreator())
	f.earnings.earnings = []model.Earning{
		{ID: 1, CreatorID: "creator-1", Amount: 495, CreatedAt: time.Now()},
	}

	res, err := f.svc.CheckDailyLimit(context.Background(), "creator-1", 10)
	if err != nil {
		t.Fatalf("CheckDailyLimit: %v", err)
	}
	if !res.Blocked {
		t.Errorf("result = %+v, want blocked (495 + 10 > 500)", res)
	}

	// Exactly at the cap is allowed
	res, err = f.svc.CheckDailyLimit(context.Background(), "creator-1", 5)
	if err != nil {
		t.Fatalf("CheckDailyLimit: %v", err)
	}
	if res.Blocked {
		t.Errorf("result = %+v, want allowed (495 + 5 = 500)", res)
	}
}

func TestProcessEarnings_Success(t *testing.T) {
	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1", Likes: 100},
		standardCreator())
	f.engagements.users["post-1"] = spreadEngagers(25, 4)

	res, err := f.svc.ProcessEarnings(context.Background(), "post-1", "creator-1")
	if err != nil {
		t.Fatalf("ProcessEarnings: %v", err)
	}

	if !res.Success {
		t.Fatalf("result = %+v, want success", res)
	}
	if !almostEqual(res.FinalEarnings, 10.0, 0.001) {
		t.Errorf("final = %.2f, want 10.00", res.FinalEarnings)
	}
	if len(f.earnings.earnings) != 1 {
		t.Fatalf("earnings persisted = %d, want 1", len(f.earnings.earnings))
	}
	if !f.posts.posts["post-1"].EarningsProcessed {
		t.Error("post not marked processed")
	}
}

func TestProcessEarnings_DiversityPenaltyHalves(t *testing.T) {
	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1", Likes: 100},
		standardCreator())
	// Concentrated: 5 engagers → top 10 = 100% → 0.5 multiplier
	f.engagements.users["post-1"] = spreadEngagers(5, 20)

	res, err := f.svc.ProcessEarnings(context.Background(), "post-1", "creator-1")
	if err != nil {
		t.Fatalf("ProcessEarnings: %v", err)
	}

	if !res.Success {
		t.Fatalf("result = %+v, want success", res)
	}
	if !almostEqual(res.FinalEarnings, 5.0, 0.001) {
		t.Errorf("final = %.2f, want 5.00 (raw 10.00 halved)", res.FinalEarnings)
	}
}

func TestProcessEarnings_PerPostCap(t *testing.T) {
	// 75 shares → quality 1500 → raw $150, over the $100 beta cap
	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1", Shares: 75},
		standardCreator())

	res, err := f.svc.ProcessEarnings(context.Background(), "post-1", "creator-1")
	if err != nil {
		t.Fatalf("ProcessEarnings: %v", err)
	}

	if !res.Blocked || !res.Details.PerPostCapExceeded {
		t.Errorf("result = %+v, want blocked with per-post cap exceeded", res)
	}
	if len(f.earnings.earnings) != 0 {
		t.Errorf("earnings persisted = %d, want 0", len(f.earnings.earnings))
	}
}

func TestProcessEarnings_NaturalUncapped(t *testing.T) {
	f := newEarningsFixture(naturalConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1", Shares: 75},
		standardCreator())
	f.engagements.users["post-1"] = spreadEngagers(25, 4)

	res, err := f.svc.ProcessEarnings(context.Background(), "post-1", "creator-1")
	if err != nil {
		t.Fatalf("ProcessEarnings: %v", err)
	}

	if !res.Success {
		t.Fatalf("result = %+v, want success (no caps in natural)", res)
	}
	if !almostEqual(res.FinalEarnings, 150.0, 0.001) {
		t.Errorf("final = %.2f, want 150.00", res.FinalEarnings)
	}
}

func TestProcessEarnings_DailyCap(t *testing.T) {
	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1", Likes: 100},
		standardCreator())
	f.engagements.users["post-1"] = spreadEngagers(25, 4)
	f.earnings.earnings = []model.Earning{
		{ID: 1, PostID: "post-0", CreatorID: "creator-1", Amount: 495, CreatedAt: time.Now()},
	}

	res, err := f.svc.ProcessEarnings(context.Background(), "post-1", "creator-1")
	if err != nil {
		t.Fatalf("ProcessEarnings: %v", err)
	}

	if !res.Blocked || !res.Details.DailyCapExceeded {
		t.Errorf("result = %+v, want blocked with daily cap exceeded", res)
	}
}

func TestProcessEarnings_AlreadyProcessed(t *testing.T) {
	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1", Likes: 100, EarningsProcessed: true},
		standardCreator())

	res, err := f.svc.ProcessEarnings(context.Background(), "post-1", "creator-1")
	if err != nil {
		t.Fatalf("ProcessEarnings: %v", err)
	}

	if res.Success || res.Blocked {
		t.Errorf("result = %+v, want no-op", res)
	}
	if len(f.earnings.earnings) != 0 {
		t.Errorf("earnings persisted = %d, want 0", len(f.earnings.earnings))
	}
}

// rendezvousPosts holds the first two FindByID callers at a barrier so
// both observe the post as unprocessed before either reaches the claim.
type rendezvousPosts struct {
	*fakePosts
	barrier *sync.WaitGroup
	reads   int32
}

func (r *rendezvousPosts) FindByID(ctx context.Context, id string) (*model.Post, error) {
	if atomic.AddInt32(&r.reads, 1) <= 2 {
		r.barrier.Done()
		r.barrier.Wait()
	}
	return r.fakePosts.FindByID(ctx, id)
}

func TestProcessEarnings_ConcurrentCallsPayOnce(t *testing.T) {
	engagements := newFakeEngagements()
	engagements.users["post-1"] = spreadEngagers(25, 4)
	accounts := newFakeAccounts(standardCreator())
	var barrier sync.WaitGroup
	barrier.Add(2)
	posts := &rendezvousPosts{
		fakePosts: newFakePosts(&model.Post{ID: "post-1", AuthorID: "creator-1", Likes: 100}),
		barrier:   &barrier,
	}
	earnings := &fakeEarnings{}
	warningSvc := NewWarningService(&fakeWarnings{}, accounts, earnings, nil, nil)
	diversitySvc := NewDiversityService(betaConfig(), engagements, posts, &fakeFlags{}, warningSvc, nil)
	svc := NewEarningsService(betaConfig(), posts, accounts, earnings, diversitySvc, warningSvc)

	var (
		wg      sync.WaitGroup
		results [2]*model.ProcessResult
		errs    [2]error
	)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.ProcessEarnings(context.Background(), "post-1", "creator-1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, res := range results {
		if errs[i] != nil {
			t.Fatalf("ProcessEarnings[%d]: %v", i, errs[i])
		}
		if res.Blocked {
			t.Errorf("result[%d] = %+v, want success or no-op", i, res)
		}
		if res.Success {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Errorf("successful payouts = %d, want exactly 1", succeeded)
	}
	if len(earnings.earnings) != 1 {
		t.Fatalf("earnings persisted = %d, want exactly 1", len(earnings.earnings))
	}
	if !posts.posts["post-1"].EarningsProcessed {
		t.Error("post not marked processed")
	}
}

func TestProcessEarnings_SuspendedCreatorBlocked(t *testing.T) {
	creator := standardCreator()
	creator.Status = model.StatusSuspended

	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1", Likes: 100},
		creator)

	res, err := f.svc.ProcessEarnings(context.Background(), "post-1", "creator-1")
	if err != nil {
		t.Fatalf("ProcessEarnings: %v", err)
	}
	if !res.Blocked {
		t.Errorf("result = %+v, want blocked", res)
	}
}

func TestProcessEarnings_ZeroEngagement(t *testing.T) {
	f := newEarningsFixture(betaConfig(),
		&model.Post{ID: "post-1", AuthorID: "creator-1"},
		standardCreator())

	res, err := f.svc.ProcessEarnings(context.Background(), "post-1", "creator-1")
	if err != nil {
		t.Fatalf("ProcessEarnings: %v", err)
	}

	if !res.Success {
		t.Fatalf("result = %+v, want success", res)
	}
	if res.FinalEarnings != 0 {
		t.Errorf("final = %.2f, want 0.00", res.FinalEarnings)
	}
}
