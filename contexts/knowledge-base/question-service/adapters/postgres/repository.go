package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "quorum/contexts/knowledge-base/question-service/domain/errors"
	"quorum/contexts/knowledge-base/question-service/domain/entities"
	"quorum/contexts/knowledge-base/question-service/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) SaveQuestion(ctx context.Context, question entities.Question) error {
	row, err := questionModelFromEntity(question)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":               row.Title,
			"body":                row.Body,
			"tags":                row.Tags,
			"score":               row.Score,
			"upvoters":            row.Upvoters,
			"downvoters":          row.Downvoters,
			"answer_count":        row.AnswerCount,
			"accepted_answer_id":  row.AcceptedAnswerID,
			"has_accepted_answer": row.HasAcceptedAnswer,
			"deleted":             row.Deleted,
			"updated_at":          row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("question_repo_save_failed", create.Error, "question_id", question.ID)
	}
	return nil
}

func (r *Repository) GetQuestion(ctx context.Context, questionID string) (entities.Question, error) {
	var row questionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(questionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Question{}, domainerrors.ErrQuestionNotFound
		}
		return entities.Question{}, r.logError("question_repo_get_failed", err, "question_id", questionID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListQuestions(ctx context.Context, filter ports.ListFilter) (ports.QuestionPage, error) {
	tx := r.db.WithContext(ctx).Model(&questionModel{}).Where("deleted = false")
	if filter.Tag != "" {
		tx = tx.Where("tags @> ?", mustJSON([]string{filter.Tag}))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ports.QuestionPage{}, r.logError("question_repo_count_failed", err)
	}

	var rows []questionModel
	err := tx.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).
		Error
	if err != nil {
		return ports.QuestionPage{}, r.logError("question_repo_list_failed", err)
	}

	items := make([]entities.Question, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return ports.QuestionPage{Items: items, Total: int(total)}, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "knowledge-base/question-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("question repository operation failed", fields...)
	return err
}

type questionModel struct {
	ID                string          `gorm:"column:id;primaryKey"`
	AuthorID          string          `gorm:"column:author_id"`
	Title             string          `gorm:"column:title"`
	Body              string          `gorm:"column:body"`
	Tags              json.RawMessage `gorm:"column:tags"`
	Score             int             `gorm:"column:score"`
	Upvoters          json.RawMessage `gorm:"column:upvoters"`
	Downvoters        json.RawMessage `gorm:"column:downvoters"`
	AnswerCount       int             `gorm:"column:answer_count"`
	AcceptedAnswerID  string          `gorm:"column:accepted_answer_id"`
	HasAcceptedAnswer bool            `gorm:"column:has_accepted_answer"`
	Deleted           bool            `gorm:"column:deleted"`
	CreatedAt         time.Time       `gorm:"column:created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
}

func (questionModel) TableName() string {
	return "questions"
}

func questionModelFromEntity(question entities.Question) (questionModel, error) {
	tags, err := json.Marshal(emptyIfNil(question.Tags))
	if err != nil {
		return questionModel{}, err
	}
	upvoters, err := json.Marshal(emptyIfNil(question.Upvoters))
	if err != nil {
		return questionModel{}, err
	}
	downvoters, err := json.Marshal(emptyIfNil(question.Downvoters))
	if err != nil {
		return questionModel{}, err
	}
	return questionModel{
		ID:                question.ID,
		AuthorID:          question.AuthorID,
		Title:             question.Title,
		Body:              question.Body,
		Tags:              tags,
		Score:             question.Score,
		Upvoters:          upvoters,
		Downvoters:        downvoters,
		AnswerCount:       question.AnswerCount,
		AcceptedAnswerID:  question.AcceptedAnswerID,
		HasAcceptedAnswer: question.HasAcceptedAnswer,
		Deleted:           question.Deleted,
		CreatedAt:         question.CreatedAt,
		UpdatedAt:         question.UpdatedAt,
	}, nil
}

func (m questionModel) toEntity() entities.Question {
	return entities.Question{
		ID:                m.ID,
		AuthorID:          m.AuthorID,
		Title:             m.Title,
		Body:              m.Body,
		Tags:              decodeStrings(m.Tags),
		Score:             m.Score,
		Upvoters:          decodeStrings(m.Upvoters),
		Downvoters:        decodeStrings(m.Downvoters),
		AnswerCount:       m.AnswerCount,
		AcceptedAnswerID:  m.AcceptedAnswerID,
		HasAcceptedAnswer: m.HasAcceptedAnswer,
		Deleted:           m.Deleted,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func decodeStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func mustJSON(items []string) []byte {
	raw, _ := json.Marshal(items)
	return raw
}

// SystemClock satisfies the Clock port with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator satisfies the IDGenerator port with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
