package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "quorum/contexts/knowledge-base/question-service/domain/errors"
	"quorum/contexts/knowledge-base/question-service/domain/entities"
	"quorum/contexts/knowledge-base/question-service/ports"
)

type AskCommand struct {
	AuthorID string
	Title    string
	Body     string
	Tags     []string
}

type UpdateCommand struct {
	RequesterID string
	QuestionID  string
	Title       string
	Body        string
	Tags        []string
}

type Service struct {
	Repo     ports.QuestionRepository
	Activity ports.ActivityRecorder
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (s Service) Ask(ctx context.Context, cmd AskCommand) (entities.Question, error) {
	logger := resolveLogger(s.Logger)
	authorID := strings.TrimSpace(cmd.AuthorID)
	title := strings.TrimSpace(cmd.Title)
	body := strings.TrimSpace(cmd.Body)
	if authorID == "" || title == "" || body == "" {
		return entities.Question{}, domainerrors.ErrInvalidInput
	}

	questionID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Question{}, err
	}
	now := s.now()
	question := entities.Question{
		ID:        questionID,
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		Tags:      normalizeTags(cmd.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.SaveQuestion(ctx, question); err != nil {
		return entities.Question{}, err
	}

	// Activity counters are informational; a failed increment never fails
	// the ask.
	if s.Activity != nil {
		if err := s.Activity.RecordQuestionAsked(ctx, authorID); err != nil {
			logger.Warn("question activity record failed",
				"event", "question_activity_record_failed",
				"module", "knowledge-base/question-service",
				"layer", "application",
				"author_id", authorID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("question asked",
		"event", "question_asked",
		"module", "knowledge-base/question-service",
		"layer", "application",
		"question_id", question.ID,
		"author_id", authorID,
	)
	return question, nil
}

func (s Service) Get(ctx context.Context, questionID string) (entities.Question, error) {
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return entities.Question{}, domainerrors.ErrInvalidInput
	}
	question, err := s.Repo.GetQuestion(ctx, questionID)
	if err != nil {
		return entities.Question{}, err
	}
	if question.Deleted {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}
	return question, nil
}

func (s Service) List(ctx context.Context, filter ports.ListFilter) (ports.QuestionPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))
	return s.Repo.ListQuestions(ctx, filter)
}

func (s Service) Update(ctx context.Context, cmd UpdateCommand) (entities.Question, error) {
	question, err := s.Get(ctx, cmd.QuestionID)
	if err != nil {
		return entities.Question{}, err
	}
	if !strings.EqualFold(question.AuthorID, strings.TrimSpace(cmd.RequesterID)) {
		return entities.Question{}, domainerrors.ErrNotAuthor
	}
	title := strings.TrimSpace(cmd.Title)
	body := strings.TrimSpace(cmd.Body)
	if title == "" || body == "" {
		return entities.Question{}, domainerrors.ErrInvalidInput
	}
	question.Title = title
	question.Body = body
	if cmd.Tags != nil {
		question.Tags = normalizeTags(cmd.Tags)
	}
	question.UpdatedAt = s.now()
	if err := s.Repo.SaveQuestion(ctx, question); err != nil {
		return entities.Question{}, err
	}
	return question, nil
}

// Delete soft-deletes; the row stays so existing answer and notification
// references keep resolving.
func (s Service) Delete(ctx context.Context, requesterID string, questionID string) error {
	question, err := s.Get(ctx, questionID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(question.AuthorID, strings.TrimSpace(requesterID)) {
		return domainerrors.ErrNotAuthor
	}
	question.Deleted = true
	question.UpdatedAt = s.now()
	return s.Repo.SaveQuestion(ctx, question)
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	return normalized
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
