package model

import "time"

// FlagReason identifies why a detector flagged a piece of content.
type FlagReason string

const (
	FlagHighVelocity FlagReason = "HIGH_VELOCITY"
	FlagLowDiversity FlagReason = "LOW_DIVERSITY"
)

// Flag marks content for review. At most one unresolved flag per
// (contentId, reason) pair may exist; the store enforces this with a
// partial unique index and detectors treat the conflict as "already
// flagged".
type Flag struct {
	ID          int64      `json:"id"`
	ContentID   string     `json:"contentId"`
	ContentType string     `json:"contentType"`
	Reason      FlagReason `json:"reason"`
	Resolved    bool       `json:"resolved"`
	CreatedAt   time.Time  `json:"createdAt"`
}
