package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"quorum/contexts/community-experience/notification-service/application"
	"quorum/contexts/community-experience/notification-service/domain/entities"
	"quorum/contexts/community-experience/notification-service/ports"
	httptransport "quorum/contexts/community-experience/notification-service/transport/http"
)

type Handler struct {
	Notifications application.Service
	Logger        *slog.Logger
}

func (h Handler) ListHandler(ctx context.Context, requesterID string, filter ports.ListFilter) (httptransport.NotificationListResponse, error) {
	page, err := h.Notifications.ListByRecipient(ctx, requesterID, filter)
	if err != nil {
		return httptransport.NotificationListResponse{}, err
	}
	unread, err := h.Notifications.UnreadCount(ctx, requesterID)
	if err != nil {
		return httptransport.NotificationListResponse{}, err
	}
	items := make([]httptransport.NotificationResponse, 0, len(page.Items))
	for _, notification := range page.Items {
		items = append(items, notificationResponse(notification))
	}
	return httptransport.NotificationListResponse{
		Items:       items,
		Total:       page.Total,
		UnreadCount: unread,
	}, nil
}

func (h Handler) MarkReadHandler(ctx context.Context, requesterID string, notificationID string) (httptransport.NotificationResponse, error) {
	notification, err := h.Notifications.MarkRead(ctx, requesterID, notificationID)
	if err != nil {
		return httptransport.NotificationResponse{}, err
	}
	return notificationResponse(notification), nil
}

func (h Handler) MarkAllReadHandler(ctx context.Context, requesterID string) (httptransport.MarkAllReadResponse, error) {
	updated, err := h.Notifications.MarkAllRead(ctx, requesterID)
	if err != nil {
		return httptransport.MarkAllReadResponse{}, err
	}
	return httptransport.MarkAllReadResponse{Updated: updated}, nil
}

func notificationResponse(notification entities.Notification) httptransport.NotificationResponse {
	return httptransport.NotificationResponse{
		NotificationID: notification.ID,
		SenderID:       notification.SenderID,
		Type:           string(notification.Type),
		QuestionID:     notification.QuestionID,
		AnswerID:       notification.AnswerID,
		VoteAction:     notification.VoteAction,
		Read:           notification.Read,
		CreatedAt:      notification.CreatedAt.UTC().Format(time.RFC3339),
	}
}
