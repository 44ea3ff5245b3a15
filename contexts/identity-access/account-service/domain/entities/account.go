package entities

import "time"

// Account is the identity record. Reputation is mutated only by the voting
// engine's deltas; the activity counters are informational.
type Account struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	Reputation     int
	QuestionsAsked int
	AnswersGiven   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
