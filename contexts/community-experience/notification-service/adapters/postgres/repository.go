package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "quorum/contexts/community-experience/notification-service/domain/errors"
	"quorum/contexts/community-experience/notification-service/domain/entities"
	"quorum/contexts/community-experience/notification-service/ports"

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

func (r *Repository) SaveNotification(ctx context.Context, notification entities.Notification) error {
	row := notificationModelFromEntity(notification)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"read": row.Read,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("notification_repo_save_failed", create.Error, "notification_id", notification.ID)
	}
	return nil
}

func (r *Repository) GetNotification(ctx context.Context, notificationID string) (entities.Notification, error) {
	var row notificationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(notificationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Notification{}, domainerrors.ErrNotificationNotFound
		}
		return entities.Notification{}, r.logError("notification_repo_get_failed", err, "notification_id", notificationID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListByRecipient(ctx context.Context, recipientID string, filter ports.ListFilter) (ports.NotificationPage, error) {
	tx := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("recipient_id = ?", strings.TrimSpace(recipientID))
	if filter.UnreadOnly {
		tx = tx.Where("read = false")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ports.NotificationPage{}, r.logError("notification_repo_count_failed", err)
	}

	var rows []notificationModel
	err := tx.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).
		Error
	if err != nil {
		return ports.NotificationPage{}, r.logError("notification_repo_list_failed", err)
	}

	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return ports.NotificationPage{Items: items, Total: int(total)}, nil
}

func (r *Repository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("recipient_id = ? AND read = false", strings.TrimSpace(recipientID)).
		Count(&total).
		Error
	if err != nil {
		return 0, r.logError("notification_repo_unread_count_failed", err)
	}
	return int(total), nil
}

func (r *Repository) MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("recipient_id = ? AND read = false", strings.TrimSpace(recipientID)).
		Updates(map[string]any{
			"read":       true,
			"updated_at": readAt,
		})
	if result.Error != nil {
		return 0, r.logError("notification_repo_mark_all_failed", result.Error)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "community-experience/notification-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("notification repository operation failed", fields...)
	return err
}

type notificationModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	RecipientID string    `gorm:"column:recipient_id"`
	SenderID    string    `gorm:"column:sender_id"`
	Type        string    `gorm:"column:type"`
	QuestionID  string    `gorm:"column:question_id"`
	AnswerID    string    `gorm:"column:answer_id"`
	VoteAction  string    `gorm:"column:vote_action"`
	Read        bool      `gorm:"column:read"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(notification entities.Notification) notificationModel {
	return notificationModel{
		ID:          notification.ID,
		RecipientID: notification.RecipientID,
		SenderID:    notification.SenderID,
		Type:        string(notification.Type),
		QuestionID:  notification.QuestionID,
		AnswerID:    notification.AnswerID,
		VoteAction:  notification.VoteAction,
		Read:        notification.Read,
		CreatedAt:   notification.CreatedAt,
	}
}

func (m notificationModel) toEntity() entities.Notification {
	return entities.Notification{
		ID:          m.ID,
		RecipientID: m.RecipientID,
		SenderID:    m.SenderID,
		Type:        entities.NotificationType(m.Type),
		QuestionID:  m.QuestionID,
		AnswerID:    m.AnswerID,
		VoteAction:  m.VoteAction,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}

// SystemClock satisfies the Clock port with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator satisfies the IDGenerator port with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
