package model

import "time"

// Post is a content unit with aggregate engagement counters. Counters are
// only ever incremented by engagement recording.
type Post struct {
	ID                string    `json:"id"`
	AuthorID          string    `json:"authorId"`
	Likes             int       `json:"likes"`
	Comments          int       `json:"comments"`
	Shares            int       `json:"shares"`
	EarningsProcessed bool      `json:"earningsProcessed"`
	CreatedAt         time.Time `json:"createdAt"`
}
