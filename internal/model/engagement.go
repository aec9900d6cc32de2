package model

import "time"

// EngagementType is the kind of engagement recorded against a post.
type EngagementType string

const (
	EngagementLike    EngagementType = "LIKE"
	EngagementComment EngagementType = "COMMENT"
	EngagementShare   EngagementType = "SHARE"
)

// ValidEngagementTypes are the engagement kinds accepted by the API.
var ValidEngagementTypes = map[EngagementType]bool{
	EngagementLike:    true,
	EngagementComment: true,
	EngagementShare:   true,
}

// Engagement is one like/comment/share event. Immutable once created; the
// append-only ledger that velocity and diversity computations read from.
type Engagement struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"userId"`
	PostID    string         `json:"postId"`
	Type      EngagementType `json:"type"`
	Body      string         `json:"body,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// EngagementRequest is the API request body for recording an engagement.
type EngagementRequest struct {
	PostID string         `json:"postId"`
	UserID string         `json:"userId"`
	Type   EngagementType `json:"type"`
	Body   string         `json:"body,omitempty"`
}

// RecordResult is the outcome of an engagement recording attempt.
type RecordResult struct {
	Success bool   `json:"success"`
	Blocked bool   `json:"blocked"`
	Warning string `json:"warning,omitempty"`
	Message string `json:"message,omitempty"`
}

// UserEngagement is a per-user engagement tally on a single post.
type UserEngagement struct {
	UserID           string `json:"userId"`
	Username         string `json:"username,omitempty"`
	Email            string `json:"email,omitempty"`
	LikesGiven       int    `json:"likesGiven"`
	CommentsGiven    int    `json:"commentsGiven"`
	TotalEngagements int    `json:"totalEngagements"`
}
