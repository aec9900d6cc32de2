package model

import "time"

// Earning is an engagement-derived payout record for one post. Held
// earnings stay unpaid until a moderator releases or voids them.
type Earning struct {
	ID        int64     `json:"id"`
	PostID    string    `json:"postId"`
	CreatorID string    `json:"creatorId"`
	Amount    float64   `json:"amount"`
	IsPaid    bool      `json:"isPaid"`
	Held      bool      `json:"held"`
	CreatedAt time.Time `json:"createdAt"`
}
