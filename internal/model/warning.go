package model

import "time"

// ViolationType classifies the behavior a warning was issued for.
type ViolationType string

const (
	ViolationHighEngagementVelocity    ViolationType = "HIGH_ENGAGEMENT_VELOCITY"
	ViolationExtremeEngagementVelocity ViolationType = "EXTREME_ENGAGEMENT_VELOCITY"
	ViolationLowEngagementDiversity    ViolationType = "LOW_ENGAGEMENT_DIVERSITY"
	ViolationExcessiveEngagementGiving ViolationType = "EXCESSIVE_ENGAGEMENT_GIVING"
)

// WarningAction is the escalation action taken when a strike is issued.
type WarningAction string

const (
	ActionLogOnly        WarningAction = "LOG_ONLY"
	ActionEmailNotify    WarningAction = "EMAIL_NOTIFICATION"
	ActionHoldEarnings   WarningAction = "HOLD_EARNINGS"
	ActionSuspendAccount WarningAction = "SUSPEND_ACCOUNT"
)

// MaxStrikeLevel caps strike escalation.
const MaxStrikeLevel = 4

// Warning is one strike against a creator. A strike is active while
// clearedAt is null and it is younger than 30 days.
type Warning struct {
	ID            int64         `json:"id"`
	CreatorID     string        `json:"creatorId"`
	ViolationType ViolationType `json:"violationType"`
	StrikeLevel   int           `json:"strikeLevel"`
	Metadata      string        `json:"metadata,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	ClearedAt     *time.Time    `json:"clearedAt,omitempty"`
}

// IssueResult is the outcome of issuing a warning.
type IssueResult struct {
	StrikeLevel int           `json:"strikeLevel"`
	Action      WarningAction `json:"action"`
}
