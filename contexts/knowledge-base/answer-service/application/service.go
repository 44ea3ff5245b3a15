package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	domainerrors "quorum/contexts/knowledge-base/answer-service/domain/errors"
	"quorum/contexts/knowledge-base/answer-service/domain/entities"
	"quorum/contexts/knowledge-base/answer-service/ports"
)

type PostCommand struct {
	AuthorID   string
	QuestionID string
	Body       string
}

type UpdateCommand struct {
	RequesterID string
	AnswerID    string
	Body        string
}

type Service struct {
	Repo          ports.AnswerRepository
	Questions     ports.QuestionDirectory
	Activity      ports.ActivityRecorder
	Notifications ports.NotificationEmitter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// Post stores a new answer, bumps the question's answer count and the
// author's activity counter, and notifies the question author. Everything
// after the answer write is best effort.
func (s Service) Post(ctx context.Context, cmd PostCommand) (entities.Answer, error) {
	logger := resolveLogger(s.Logger)
	authorID := strings.TrimSpace(cmd.AuthorID)
	questionID := strings.TrimSpace(cmd.QuestionID)
	body := strings.TrimSpace(cmd.Body)
	if authorID == "" || questionID == "" || body == "" {
		return entities.Answer{}, domainerrors.ErrInvalidInput
	}

	question, err := s.Questions.GetQuestionSummary(ctx, questionID)
	if err != nil {
		return entities.Answer{}, err
	}
	if question.Deleted {
		return entities.Answer{}, domainerrors.ErrQuestionNotFound
	}

	answerID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Answer{}, err
	}
	now := s.now()
	answer := entities.Answer{
		ID:         answerID,
		QuestionID: questionID,
		AuthorID:   authorID,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.SaveAnswer(ctx, answer); err != nil {
		return entities.Answer{}, err
	}

	if err := s.Questions.IncrementAnswerCount(ctx, questionID, 1); err != nil {
		logger.Warn("answer count increment failed",
			"event", "answer_count_increment_failed",
			"module", "knowledge-base/answer-service",
			"layer", "application",
			"question_id", questionID,
			"error", err.Error(),
		)
	}
	if s.Activity != nil {
		if err := s.Activity.RecordAnswerGiven(ctx, authorID); err != nil {
			logger.Warn("answer activity record failed",
				"event", "answer_activity_record_failed",
				"module", "knowledge-base/answer-service",
				"layer", "application",
				"author_id", authorID,
				"error", err.Error(),
			)
		}
	}
	// Answering your own question is allowed and does not notify.
	if s.Notifications != nil && !strings.EqualFold(question.AuthorID, authorID) {
		if err := s.Notifications.EmitNotification(ctx, ports.Notification{
			RecipientID: question.AuthorID,
			SenderID:    authorID,
			Type:        ports.NotificationAnswerToQuestion,
			QuestionID:  questionID,
			AnswerID:    answerID,
		}); err != nil {
			logger.Error("answer notification emit failed; answer already committed",
				"event", "answer_notification_emit_failed",
				"module", "knowledge-base/answer-service",
				"layer", "application",
				"recipient_id", question.AuthorID,
				"answer_id", answerID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("answer posted",
		"event", "answer_posted",
		"module", "knowledge-base/answer-service",
		"layer", "application",
		"answer_id", answerID,
		"question_id", questionID,
		"author_id", authorID,
	)
	return answer, nil
}

func (s Service) Get(ctx context.Context, answerID string) (entities.Answer, error) {
	answerID = strings.TrimSpace(answerID)
	if answerID == "" {
		return entities.Answer{}, domainerrors.ErrInvalidInput
	}
	answer, err := s.Repo.GetAnswer(ctx, answerID)
	if err != nil {
		return entities.Answer{}, err
	}
	if answer.Deleted {
		return entities.Answer{}, domainerrors.ErrAnswerNotFound
	}
	return answer, nil
}

// ListByQuestion returns the accepted answer first, then by score, newest
// first on ties.
func (s Service) ListByQuestion(ctx context.Context, questionID string) ([]entities.Answer, error) {
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	answers, err := s.Repo.ListAnswersByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	visible := make([]entities.Answer, 0, len(answers))
	for _, answer := range answers {
		if !answer.Deleted {
			visible = append(visible, answer)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].IsAccepted != visible[j].IsAccepted {
			return visible[i].IsAccepted
		}
		if visible[i].Score != visible[j].Score {
			return visible[i].Score > visible[j].Score
		}
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible, nil
}

func (s Service) Update(ctx context.Context, cmd UpdateCommand) (entities.Answer, error) {
	answer, err := s.Get(ctx, cmd.AnswerID)
	if err != nil {
		return entities.Answer{}, err
	}
	if !strings.EqualFold(answer.AuthorID, strings.TrimSpace(cmd.RequesterID)) {
		return entities.Answer{}, domainerrors.ErrNotAuthor
	}
	body := strings.TrimSpace(cmd.Body)
	if body == "" {
		return entities.Answer{}, domainerrors.ErrInvalidInput
	}
	answer.Body = body
	answer.UpdatedAt = s.now()
	if err := s.Repo.SaveAnswer(ctx, answer); err != nil {
		return entities.Answer{}, err
	}
	return answer, nil
}

func (s Service) Delete(ctx context.Context, requesterID string, answerID string) error {
	answer, err := s.Get(ctx, answerID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer.AuthorID, strings.TrimSpace(requesterID)) {
		return domainerrors.ErrNotAuthor
	}
	answer.Deleted = true
	answer.UpdatedAt = s.now()
	if err := s.Repo.SaveAnswer(ctx, answer); err != nil {
		return err
	}
	if err := s.Questions.IncrementAnswerCount(ctx, answer.QuestionID, -1); err != nil {
		resolveLogger(s.Logger).Warn("answer count decrement failed",
			"event", "answer_count_decrement_failed",
			"module", "knowledge-base/answer-service",
			"layer", "application",
			"question_id", answer.QuestionID,
			"error", err.Error(),
		)
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
