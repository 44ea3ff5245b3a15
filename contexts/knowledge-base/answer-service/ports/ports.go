package ports

import (
	"context"
	"time"

	"quorum/contexts/knowledge-base/answer-service/domain/entities"
)

type AnswerRepository interface {
	SaveAnswer(ctx context.Context, answer entities.Answer) error
	GetAnswer(ctx context.Context, answerID string) (entities.Answer, error)
	ListAnswersByQuestion(ctx context.Context, questionID string) ([]entities.Answer, error)
}

// QuestionSummary is the projection of the parent question the answer module
// needs: existence, author (for the notification recipient), soft-delete.
type QuestionSummary struct {
	QuestionID string
	AuthorID   string
	Deleted    bool
}

type QuestionDirectory interface {
	GetQuestionSummary(ctx context.Context, questionID string) (QuestionSummary, error)
	IncrementAnswerCount(ctx context.Context, questionID string, delta int) error
}

type ActivityRecorder interface {
	RecordAnswerGiven(ctx context.Context, accountID string) error
}

const NotificationAnswerToQuestion = "answer_to_question"

type Notification struct {
	RecipientID string
	SenderID    string
	Type        string
	QuestionID  string
	AnswerID    string
}

type NotificationEmitter interface {
	EmitNotification(ctx context.Context, notification Notification) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
