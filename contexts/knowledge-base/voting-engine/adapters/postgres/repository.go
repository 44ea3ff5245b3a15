package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quorum/contexts/knowledge-base/voting-engine/domain/entities"
	domainerrors "quorum/contexts/knowledge-base/voting-engine/domain/errors"
	"quorum/contexts/knowledge-base/voting-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository persists voting state against the shared questions/answers/
// accounts tables. The voting engine owns only the ledger columns; the
// content modules own the rest of each row.
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

func (r *Repository) GetVotable(ctx context.Context, kind entities.VotableKind, targetID string) (entities.Votable, error) {
	targetID = strings.TrimSpace(targetID)
	switch kind {
	case entities.VotableKindQuestion:
		var row questionLedgerModel
		err := r.db.WithContext(ctx).
			Where("id = ? AND deleted = false", targetID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entities.Votable{}, domainerrors.ErrTargetNotFound
			}
			return entities.Votable{}, r.logError("voting_repo_get_question_failed", err, "target_id", targetID)
		}
		return row.toVotable(), nil
	case entities.VotableKindAnswer:
		var row answerLedgerModel
		err := r.db.WithContext(ctx).
			Where("id = ? AND deleted = false", targetID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entities.Votable{}, domainerrors.ErrTargetNotFound
			}
			return entities.Votable{}, r.logError("voting_repo_get_answer_failed", err, "target_id", targetID)
		}
		return row.toVotable(), nil
	default:
		return entities.Votable{}, domainerrors.ErrInvalidVoteInput
	}
}

func (r *Repository) SaveVotable(ctx context.Context, votable entities.Votable) error {
	targetID := strings.TrimSpace(votable.ID)
	upvoters, err := json.Marshal(orEmpty(votable.Upvoters))
	if err != nil {
		return err
	}
	downvoters, err := json.Marshal(orEmpty(votable.Downvoters))
	if err != nil {
		return err
	}

	table := "questions"
	if votable.Kind == entities.VotableKindAnswer {
		table = "answers"
	}
	update := r.db.WithContext(ctx).Table(table).
		Where("id = ?", targetID).
		Updates(map[string]any{
			"upvoters":   upvoters,
			"downvoters": downvoters,
			"score":      votable.Score,
			"updated_at": votable.UpdatedAt,
		})
	if update.Error != nil {
		return r.logError("voting_repo_save_ledger_failed", update.Error,
			"target_kind", string(votable.Kind),
			"target_id", targetID,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrTargetNotFound
	}
	return nil
}

func (r *Repository) GetQuestionState(ctx context.Context, questionID string) (ports.QuestionState, error) {
	var row questionLedgerModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted = false", strings.TrimSpace(questionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.QuestionState{}, domainerrors.ErrQuestionNotFound
		}
		return ports.QuestionState{}, r.logError("voting_repo_get_question_state_failed", err, "question_id", questionID)
	}
	return ports.QuestionState{
		QuestionID:       row.ID,
		AuthorID:         row.AuthorID,
		AcceptedAnswerID: row.AcceptedAnswerID,
	}, nil
}

func (r *Repository) GetAnswerState(ctx context.Context, answerID string) (ports.AnswerState, error) {
	var row answerLedgerModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted = false", strings.TrimSpace(answerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AnswerState{}, domainerrors.ErrAnswerNotFound
		}
		return ports.AnswerState{}, r.logError("voting_repo_get_answer_state_failed", err, "answer_id", answerID)
	}
	return ports.AnswerState{
		AnswerID:   row.ID,
		QuestionID: row.QuestionID,
		AuthorID:   row.AuthorID,
		IsAccepted: row.IsAccepted,
	}, nil
}

// SetAccepted applies the exclusivity transition in one transaction so the
// at-most-one-accepted invariant is never observable broken.
func (r *Repository) SetAccepted(ctx context.Context, questionID string, answerID string, previousAnswerID string) error {
	questionID = strings.TrimSpace(questionID)
	answerID = strings.TrimSpace(answerID)
	previousAnswerID = strings.TrimSpace(previousAnswerID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if previousAnswerID != "" {
			if err := tx.Table("answers").
				Where("id = ?", previousAnswerID).
				Updates(map[string]any{"is_accepted": false, "updated_at": now}).
				Error; err != nil {
				return err
			}
		}
		accepted := tx.Table("answers").
			Where("id = ?", answerID).
			Updates(map[string]any{"is_accepted": true, "updated_at": now})
		if accepted.Error != nil {
			return accepted.Error
		}
		if accepted.RowsAffected == 0 {
			return domainerrors.ErrAnswerNotFound
		}
		question := tx.Table("questions").
			Where("id = ?", questionID).
			Updates(map[string]any{
				"accepted_answer_id":  answerID,
				"has_accepted_answer": true,
				"updated_at":          now,
			})
		if question.Error != nil {
			return question.Error
		}
		if question.RowsAffected == 0 {
			return domainerrors.ErrQuestionNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAnswerNotFound) || errors.Is(err, domainerrors.ErrQuestionNotFound) {
			return err
		}
		return r.logError("voting_repo_set_accepted_failed", err,
			"question_id", questionID,
			"answer_id", answerID,
		)
	}
	return nil
}

func (r *Repository) ApplyReputationDelta(ctx context.Context, accountID string, delta int) error {
	update := r.db.WithContext(ctx).Table("accounts").
		Where("id = ?", strings.TrimSpace(accountID)).
		Updates(map[string]any{
			"reputation": gorm.Expr("reputation + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if update.Error != nil {
		return r.logError("voting_repo_reputation_delta_failed", update.Error,
			"account_id", strings.TrimSpace(accountID),
			"delta", delta,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrTargetNotFound
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		ID:        strings.TrimSpace(event.EventID),
		EventType: event.EventType,
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: event.OccurredAt.UTC(),
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			// Replayed event; the existing row wins.
			return nil
		}
		return r.logError("voting_repo_outbox_append_failed", err,
			"event_id", row.ID,
			"event_type", row.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("voting_repo_outbox_list_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	update := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if update.Error != nil {
		return r.logError("voting_repo_outbox_mark_failed", update.Error, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "knowledge-base/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("voting repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

type questionLedgerModel struct {
	ID               string          `gorm:"column:id;primaryKey"`
	AuthorID         string          `gorm:"column:author_id"`
	Score            int             `gorm:"column:score"`
	Upvoters         json.RawMessage `gorm:"column:upvoters"`
	Downvoters       json.RawMessage `gorm:"column:downvoters"`
	AcceptedAnswerID string          `gorm:"column:accepted_answer_id"`
	Deleted          bool            `gorm:"column:deleted"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

func (questionLedgerModel) TableName() string {
	return "questions"
}

func (m questionLedgerModel) toVotable() entities.Votable {
	return entities.Votable{
		Kind:       entities.VotableKindQuestion,
		ID:         m.ID,
		AuthorID:   m.AuthorID,
		Upvoters:   decodeMembers(m.Upvoters),
		Downvoters: decodeMembers(m.Downvoters),
		Score:      m.Score,
		UpdatedAt:  m.UpdatedAt,
	}
}

type answerLedgerModel struct {
	ID         string          `gorm:"column:id;primaryKey"`
	QuestionID string          `gorm:"column:question_id"`
	AuthorID   string          `gorm:"column:author_id"`
	Score      int             `gorm:"column:score"`
	Upvoters   json.RawMessage `gorm:"column:upvoters"`
	Downvoters json.RawMessage `gorm:"column:downvoters"`
	IsAccepted bool            `gorm:"column:is_accepted"`
	Deleted    bool            `gorm:"column:deleted"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (answerLedgerModel) TableName() string {
	return "answers"
}

func (m answerLedgerModel) toVotable() entities.Votable {
	return entities.Votable{
		Kind:       entities.VotableKindAnswer,
		ID:         m.ID,
		AuthorID:   m.AuthorID,
		Upvoters:   decodeMembers(m.Upvoters),
		Downvoters: decodeMembers(m.Downvoters),
		Score:      m.Score,
		UpdatedAt:  m.UpdatedAt,
	}
}

type outboxModel struct {
	ID          string          `gorm:"column:id;primaryKey"`
	EventType   string          `gorm:"column:event_type"`
	Payload     json.RawMessage `gorm:"column:payload"`
	Status      string          `gorm:"column:status"`
	RetryCount  int             `gorm:"column:retry_count"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	PublishedAt *time.Time      `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "voting_outbox"
}

func (m outboxModel) toMessage() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:    m.ID,
		EventType:   m.EventType,
		Payload:     m.Payload,
		Status:      m.Status,
		RetryCount:  m.RetryCount,
		CreatedAt:   m.CreatedAt,
		PublishedAt: m.PublishedAt,
	}
}

func decodeMembers(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var members []string
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil
	}
	return members
}

// SystemClock satisfies the Clock port with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator satisfies the IDGenerator port with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
