package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "quorum/contexts/knowledge-base/answer-service/domain/errors"
	"quorum/contexts/knowledge-base/answer-service/domain/entities"
	"quorum/contexts/knowledge-base/answer-service/ports"

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

func (r *Repository) SaveAnswer(ctx context.Context, answer entities.Answer) error {
	row, err := answerModelFromEntity(answer)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"body":        row.Body,
			"score":       row.Score,
			"upvoters":    row.Upvoters,
			"downvoters":  row.Downvoters,
			"is_accepted": row.IsAccepted,
			"deleted":     row.Deleted,
			"updated_at":  row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("answer_repo_save_failed", create.Error, "answer_id", answer.ID)
	}
	return nil
}

func (r *Repository) GetAnswer(ctx context.Context, answerID string) (entities.Answer, error) {
	var row answerModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(answerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Answer{}, domainerrors.ErrAnswerNotFound
		}
		return entities.Answer{}, r.logError("answer_repo_get_failed", err, "answer_id", answerID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListAnswersByQuestion(ctx context.Context, questionID string) ([]entities.Answer, error) {
	var rows []answerModel
	err := r.db.WithContext(ctx).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("answer_repo_list_failed", err, "question_id", questionID)
	}
	items := make([]entities.Answer, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// QuestionDirectory reads the question projection straight from the shared
// questions table.
type QuestionDirectory struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewQuestionDirectory(db *gorm.DB, logger *slog.Logger) *QuestionDirectory {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionDirectory{
		db:     db,
		logger: logger,
	}
}

func (d *QuestionDirectory) GetQuestionSummary(ctx context.Context, questionID string) (ports.QuestionSummary, error) {
	var row struct {
		ID       string `gorm:"column:id"`
		AuthorID string `gorm:"column:author_id"`
		Deleted  bool   `gorm:"column:deleted"`
	}
	err := d.db.WithContext(ctx).
		Table("questions").
		Select("id", "author_id", "deleted").
		Where("id = ?", strings.TrimSpace(questionID)).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.QuestionSummary{}, domainerrors.ErrQuestionNotFound
		}
		d.logger.Error("question summary lookup failed",
			"event", "answer_question_lookup_failed",
			"module", "knowledge-base/answer-service",
			"layer", "adapter",
			"question_id", questionID,
			"error", err.Error(),
		)
		return ports.QuestionSummary{}, err
	}
	return ports.QuestionSummary{
		QuestionID: row.ID,
		AuthorID:   row.AuthorID,
		Deleted:    row.Deleted,
	}, nil
}

func (d *QuestionDirectory) IncrementAnswerCount(ctx context.Context, questionID string, delta int) error {
	result := d.db.WithContext(ctx).
		Table("questions").
		Where("id = ?", strings.TrimSpace(questionID)).
		Updates(map[string]any{
			"answer_count": gorm.Expr("answer_count + ?", delta),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		d.logger.Error("answer count update failed",
			"event", "answer_count_update_failed",
			"module", "knowledge-base/answer-service",
			"layer", "adapter",
			"question_id", questionID,
			"error", result.Error.Error(),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrQuestionNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "knowledge-base/answer-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("answer repository operation failed", fields...)
	return err
}

type answerModel struct {
	ID         string          `gorm:"column:id;primaryKey"`
	QuestionID string          `gorm:"column:question_id"`
	AuthorID   string          `gorm:"column:author_id"`
	Body       string          `gorm:"column:body"`
	Score      int             `gorm:"column:score"`
	Upvoters   json.RawMessage `gorm:"column:upvoters"`
	Downvoters json.RawMessage `gorm:"column:downvoters"`
	IsAccepted bool            `gorm:"column:is_accepted"`
	Deleted    bool            `gorm:"column:deleted"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (answerModel) TableName() string {
	return "answers"
}

func answerModelFromEntity(answer entities.Answer) (answerModel, error) {
	upvoters, err := json.Marshal(emptyIfNil(answer.Upvoters))
	if err != nil {
		return answerModel{}, err
	}
	downvoters, err := json.Marshal(emptyIfNil(answer.Downvoters))
	if err != nil {
		return answerModel{}, err
	}
	return answerModel{
		ID:         answer.ID,
		QuestionID: answer.QuestionID,
		AuthorID:   answer.AuthorID,
		Body:       answer.Body,
		Score:      answer.Score,
		Upvoters:   upvoters,
		Downvoters: downvoters,
		IsAccepted: answer.IsAccepted,
		Deleted:    answer.Deleted,
		CreatedAt:  answer.CreatedAt,
		UpdatedAt:  answer.UpdatedAt,
	}, nil
}

func (m answerModel) toEntity() entities.Answer {
	return entities.Answer{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		AuthorID:   m.AuthorID,
		Body:       m.Body,
		Score:      m.Score,
		Upvoters:   decodeStrings(m.Upvoters),
		Downvoters: decodeStrings(m.Downvoters),
		IsAccepted: m.IsAccepted,
		Deleted:    m.Deleted,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
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

// SystemClock satisfies the Clock port with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator satisfies the IDGenerator port with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
