package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "quorum/contexts/community-experience/notification-service/domain/errors"
	"quorum/contexts/community-experience/notification-service/domain/entities"
	"quorum/contexts/community-experience/notification-service/ports"
)

type EmitCommand struct {
	RecipientID string
	SenderID    string
	Type        string
	QuestionID  string
	AnswerID    string
	VoteAction  string
}

type Service struct {
	Repo   ports.NotificationRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Emit appends one inbox entry. Callers treat it as fire and forget; the
// returned error is for them to log, not to surface.
func (s Service) Emit(ctx context.Context, cmd EmitCommand) (entities.Notification, error) {
	recipientID := strings.TrimSpace(cmd.RecipientID)
	if recipientID == "" {
		return entities.Notification{}, domainerrors.ErrInvalidInput
	}
	kind := entities.NotificationType(strings.TrimSpace(cmd.Type))
	if !kind.Valid() {
		return entities.Notification{}, domainerrors.ErrInvalidType
	}

	notificationID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Notification{}, err
	}
	notification := entities.Notification{
		ID:          notificationID,
		RecipientID: recipientID,
		SenderID:    strings.TrimSpace(cmd.SenderID),
		Type:        kind,
		QuestionID:  strings.TrimSpace(cmd.QuestionID),
		AnswerID:    strings.TrimSpace(cmd.AnswerID),
		VoteAction:  strings.TrimSpace(cmd.VoteAction),
		CreatedAt:   s.now(),
	}
	if err := s.Repo.SaveNotification(ctx, notification); err != nil {
		return entities.Notification{}, err
	}

	resolveLogger(s.Logger).Info("notification emitted",
		"event", "notification_emitted",
		"module", "community-experience/notification-service",
		"layer", "application",
		"notification_id", notificationID,
		"recipient_id", recipientID,
		"notification_type", string(kind),
	)
	return notification, nil
}

func (s Service) ListByRecipient(ctx context.Context, recipientID string, filter ports.ListFilter) (ports.NotificationPage, error) {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return ports.NotificationPage{}, domainerrors.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.Repo.ListByRecipient(ctx, recipientID, filter)
}

func (s Service) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	return s.Repo.CountUnread(ctx, recipientID)
}

// MarkRead flips the read flag. Only the recipient may flip it; the entry is
// otherwise immutable.
func (s Service) MarkRead(ctx context.Context, requesterID string, notificationID string) (entities.Notification, error) {
	requesterID = strings.TrimSpace(requesterID)
	notificationID = strings.TrimSpace(notificationID)
	if requesterID == "" || notificationID == "" {
		return entities.Notification{}, domainerrors.ErrInvalidInput
	}
	notification, err := s.Repo.GetNotification(ctx, notificationID)
	if err != nil {
		return entities.Notification{}, err
	}
	if !strings.EqualFold(notification.RecipientID, requesterID) {
		return entities.Notification{}, domainerrors.ErrNotRecipient
	}
	if notification.Read {
		return notification, nil
	}
	notification.Read = true
	if err := s.Repo.SaveNotification(ctx, notification); err != nil {
		return entities.Notification{}, err
	}
	return notification, nil
}

func (s Service) MarkAllRead(ctx context.Context, requesterID string) (int, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	return s.Repo.MarkAllRead(ctx, requesterID, s.now())
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
