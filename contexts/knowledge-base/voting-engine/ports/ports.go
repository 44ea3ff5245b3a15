package ports

import (
	"context"
	"time"

	"quorum/contexts/knowledge-base/voting-engine/domain/entities"
	contractsv1 "quorum/contracts/gen/events/v1"
	"quorum/internal/shared/outbox"
)

// QuestionState is the acceptance-relevant projection of a question.
type QuestionState struct {
	QuestionID       string
	AuthorID         string
	AcceptedAnswerID string
}

// AnswerState is the acceptance-relevant projection of an answer.
type AnswerState struct {
	AnswerID   string
	QuestionID string
	AuthorID   string
	IsAccepted bool
}

type VotableRepository interface {
	GetVotable(ctx context.Context, kind entities.VotableKind, targetID string) (entities.Votable, error)
	SaveVotable(ctx context.Context, votable entities.Votable) error

	GetQuestionState(ctx context.Context, questionID string) (QuestionState, error)
	GetAnswerState(ctx context.Context, answerID string) (AnswerState, error)
	// SetAccepted flips acceptance to answerID: clears previousAnswerID's flag
	// when non-empty, marks answerID accepted, and points the question at it.
	SetAccepted(ctx context.Context, questionID string, answerID string, previousAnswerID string) error
}

type ReputationWriter interface {
	ApplyReputationDelta(ctx context.Context, accountID string, delta int) error
}

// Notification type names understood by the notification module. Kept as
// local constants so the voting engine never imports another context.
const (
	NotificationVoteOnQuestion = "vote_on_question"
	NotificationVoteOnAnswer   = "vote_on_answer"
	NotificationAnswerAccepted = "answer_accepted"
)

type Notification struct {
	RecipientID string
	SenderID    string
	Type        string
	QuestionID  string
	AnswerID    string
	VoteAction  string
}

type NotificationEmitter interface {
	EmitNotification(ctx context.Context, notification Notification) error
}

// EventEnvelope aliases the canonical contract envelope so module code and
// the platform bus agree on one wire shape.
type EventEnvelope = contractsv1.Envelope

// OutboxMessage aliases the shared outbox row shape.
type OutboxMessage = outbox.Message

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
