package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "quorum/contexts/community-experience/notification-service/domain/errors"
	"quorum/contexts/community-experience/notification-service/domain/entities"
	"quorum/contexts/community-experience/notification-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu            sync.RWMutex
	notifications map[string]entities.Notification
}

func NewStore() *Store {
	return &Store{
		notifications: make(map[string]entities.Notification),
	}
}

func (s *Store) SaveNotification(_ context.Context, notification entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[strings.TrimSpace(notification.ID)] = notification
	return nil
}

func (s *Store) GetNotification(_ context.Context, notificationID string) (entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notification, ok := s.notifications[strings.TrimSpace(notificationID)]
	if !ok {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	return notification, nil
}

func (s *Store) ListByRecipient(_ context.Context, recipientID string, filter ports.ListFilter) (ports.NotificationPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recipientID = strings.TrimSpace(recipientID)

	matched := make([]entities.Notification, 0)
	for _, notification := range s.notifications {
		if notification.RecipientID != recipientID {
			continue
		}
		if filter.UnreadOnly && notification.Read {
			continue
		}
		matched = append(matched, notification)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if filter.Offset >= total {
		return ports.NotificationPage{Items: []entities.Notification{}, Total: total}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return ports.NotificationPage{Items: matched, Total: total}, nil
}

func (s *Store) CountUnread(_ context.Context, recipientID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recipientID = strings.TrimSpace(recipientID)
	count := 0
	for _, notification := range s.notifications {
		if notification.RecipientID == recipientID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (s *Store) MarkAllRead(_ context.Context, recipientID string, _ time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recipientID = strings.TrimSpace(recipientID)
	updated := 0
	for id, notification := range s.notifications {
		if notification.RecipientID == recipientID && !notification.Read {
			notification.Read = true
			s.notifications[id] = notification
			updated++
		}
	}
	return updated, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
