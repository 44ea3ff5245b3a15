package entities

import "time"

// Answer belongs to exactly one question. IsAccepted is owned by the
// acceptance pipeline; the ledger fields by the voting engine.
type Answer struct {
	ID         string
	QuestionID string
	AuthorID   string
	Body       string
	Score      int
	Upvoters   []string
	Downvoters []string
	IsAccepted bool
	Deleted    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
