package model

// Mode is the platform operating mode. BETA enforces hard caps and
// aggressive thresholds; NATURAL relaxes enforcement to observation.
type Mode string

const (
	ModeBeta    Mode = "BETA"
	ModeNatural Mode = "NATURAL"
)

// Action is a policy decision discriminant. Each result type carries the
// action that was taken plus only the fields relevant to that action.
type Action string

const (
	ActionAllow        Action = "ALLOW"
	ActionWarn         Action = "WARN"
	ActionHold         Action = "HOLD"
	ActionBlock        Action = "BLOCK"
	ActionApplyPenalty Action = "APPLY_PENALTY"
)

// VelocityResult is the outcome of a post velocity check.
type VelocityResult struct {
	PostID    string         `json:"postId"`
	Type      EngagementType `json:"type"`
	Count     int            `json:"count"`
	Threshold int            `json:"threshold"`
	Flagged   bool           `json:"flagged"`
	Action    Action         `json:"action"`
	Mode      Mode           `json:"mode"`
	Message   string         `json:"message,omitempty"`
}

// CreatorVelocityResult is the outcome of a creator giving-rate check.
type CreatorVelocityResult struct {
	CreatorID string `json:"creatorId"`
	Count     int    `json:"count"`
	Threshold int    `json:"threshold"`
	Action    Action `json:"action"`
	Mode      Mode   `json:"mode"`
	Message   string `json:"message,omitempty"`
}

// DiversityResult is the outcome of a post diversity computation.
type DiversityResult struct {
	PostID           string  `json:"postId"`
	TotalEngagements int     `json:"totalEngagements"`
	Top10Count       int     `json:"top10Count"`
	Top10Percentage  float64 `json:"top10Percentage"`
	HHI              float64 `json:"hhi"`
	Score            float64 `json:"score"`
	Flagged          bool    `json:"flagged"`
	ShouldWarn       bool    `json:"shouldWarn"`
	Action           Action  `json:"action"`
	Mode             Mode    `json:"mode"`
	Message          string  `json:"message,omitempty"`
}

// MultiplierResult is the outcome of applying the diversity multiplier
// to raw earnings.
type MultiplierResult struct {
	AdjustedEarnings float64          `json:"adjustedEarnings"`
	PenaltyApplied   bool             `json:"penaltyApplied"`
	WarningIssued    bool             `json:"warningIssued"`
	DiversityScore   *DiversityResult `json:"diversityScore"`
}

// RawEarnings is the pre-cap earnings computation for a post.
type RawEarnings struct {
	QualityScore   int     `json:"qualityScore"`
	TierMultiplier float64 `json:"tierMultiplier"`
	NFTMultiplier  float64 `json:"nftMultiplier"`
	RawEarnings    float64 `json:"rawEarnings"`
}

// DailyLimitResult is the outcome of a daily earnings cap check.
type DailyLimitResult struct {
	Allowed           bool    `json:"allowed"`
	Blocked           bool    `json:"blocked"`
	GracePeriodActive bool    `json:"gracePeriodActive"`
	Monitored         bool    `json:"monitored"`
	TodayTotal        float64 `json:"todayTotal"`
}

// ProcessResult is the outcome of earnings processing for a post.
type ProcessResult struct {
	Success       bool           `json:"success"`
	Blocked       bool           `json:"blocked"`
	FinalEarnings float64        `json:"finalEarnings"`
	Mode          Mode           `json:"mode"`
	Details       ProcessDetails `json:"details"`
	Message       string         `json:"message,omitempty"`
}

// ProcessDetails carries the block reasons for earnings processing.
type ProcessDetails struct {
	PerPostCapExceeded bool `json:"perPostCapExceeded"`
	DailyCapExceeded   bool `json:"dailyCapExceeded"`
	GracePeriodActive  bool `json:"gracePeriodActive"`
}

// PodPair is a pair of users with suspicious engagement overlap.
type PodPair struct {
	Users          [2]string `json:"users"`
	SharedPosts    int       `json:"sharedPosts"`
	SuspicionScore float64   `json:"suspicionScore"`
}

// TrendsResult aggregates diversity scores across recent posts.
type TrendsResult struct {
	TotalPostsAnalyzed int     `json:"totalPostsAnalyzed"`
	AvgDiversityScore  float64 `json:"avgDiversityScore"`
	Mode               Mode    `json:"mode"`
}

// BotRecommendation is the moderation recommendation for an account.
type BotRecommendation string

const (
	RecommendProtected    BotRecommendation = "protected"
	RecommendSafeToDelete BotRecommendation = "safe_to_delete"
	RecommendNeedsReview  BotRecommendation = "needs_review"
)

// BotAssessment is the outcome of a bot-detector evaluation.
type BotAssessment struct {
	AccountID      string            `json:"accountId"`
	BotScore       int               `json:"botScore"`
	Indicators     []string          `json:"indicators"`
	IsProtected    bool              `json:"isProtected"`
	IsLikelyBot    bool              `json:"isLikelyBot"`
	IsSuspicious   bool              `json:"isSuspicious"`
	Recommendation BotRecommendation `json:"recommendation"`
}
