package model

import "time"

// MembershipTier is a creator's membership level. Tiers map to revenue
// shares used by the earnings processor.
type MembershipTier string

const (
	TierStandard MembershipTier = "STANDARD"
	TierSilver   MembershipTier = "SILVER"
	TierGold     MembershipTier = "GOLD"
	TierPlatinum MembershipTier = "PLATINUM"
	TierGenesis  MembershipTier = "GENESIS"
)

// AccountStatus is the moderation state of a creator account.
type AccountStatus string

const (
	StatusActive    AccountStatus = "ACTIVE"
	StatusProbation AccountStatus = "PROBATION"
	StatusSuspended AccountStatus = "SUSPENDED"
)

// Account represents a creator account with trust metadata.
type Account struct {
	ID             string         `json:"id"`
	Username       string         `json:"username"`
	Email          string         `json:"email,omitempty"`
	EmailVerified  bool           `json:"-"`
	IsAdmin        bool           `json:"-"`
	MembershipTier MembershipTier `json:"membershipTier"`
	IsVerified     bool           `json:"isVerified"`
	Status         AccountStatus  `json:"status"`
	TrustScore     *float64       `json:"trustScore,omitempty"`
	ProbationUntil *time.Time     `json:"probationUntil,omitempty"`
	SuspendedAt    *time.Time     `json:"suspendedAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`

	// Activity counters used for bot assessment.
	PostCount      int `json:"-"`
	FollowerCount  int `json:"-"`
	FollowingCount int `json:"-"`
	CommentCount   int `json:"-"`
	LikeCount      int `json:"-"`
}

// TotalActivity is the sum of all activity counters.
func (a *Account) TotalActivity() int {
	return a.PostCount + a.FollowerCount + a.FollowingCount + a.CommentCount + a.LikeCount
}

// AgeDays is the account age in whole days.
func (a *Account) AgeDays() int {
	return int(time.Since(a.CreatedAt).Hours() / 24)
}

// CreatorStatusResponse is the API response for a creator's moderation status.
type CreatorStatusResponse struct {
	CreatorID      string        `json:"creatorId"`
	Status         AccountStatus `json:"status"`
	ProbationUntil *time.Time    `json:"probationUntil,omitempty"`
	SuspendedAt    *time.Time    `json:"suspendedAt,omitempty"`
	CanEarn        bool          `json:"canEarn"`
}
