package ports

import (
	"context"
	"time"

	"quorum/contexts/knowledge-base/question-service/domain/entities"
)

type ListFilter struct {
	Tag    string
	Limit  int
	Offset int
}

type QuestionPage struct {
	Items []entities.Question
	Total int
}

type QuestionRepository interface {
	SaveQuestion(ctx context.Context, question entities.Question) error
	GetQuestion(ctx context.Context, questionID string) (entities.Question, error)
	ListQuestions(ctx context.Context, filter ListFilter) (QuestionPage, error)
}

// ActivityRecorder reports an asked question to the identity context; wired
// through bootstrap so contexts stay isolated.
type ActivityRecorder interface {
	RecordQuestionAsked(ctx context.Context, accountID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
