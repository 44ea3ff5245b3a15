package entities

import "time"

// Question carries its own vote ledger (two disjoint membership sets plus the
// derived score). The ledger fields start empty and are mutated only by the
// voting engine; acceptance fields only by the acceptance pipeline.
type Question struct {
	ID                string
	AuthorID          string
	Title             string
	Body              string
	Tags              []string
	Score             int
	Upvoters          []string
	Downvoters        []string
	AnswerCount       int
	AcceptedAnswerID  string
	HasAcceptedAnswer bool
	Deleted           bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
