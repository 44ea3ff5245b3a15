package ports

import (
	"context"
	"time"

	"quorum/contexts/community-experience/notification-service/domain/entities"
)

type ListFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NotificationPage struct {
	Items []entities.Notification
	Total int
}

type NotificationRepository interface {
	SaveNotification(ctx context.Context, notification entities.Notification) error
	GetNotification(ctx context.Context, notificationID string) (entities.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, filter ListFilter) (NotificationPage, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
