package errors

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid notification input")
	ErrInvalidType          = errors.New("invalid notification type")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("requester is not the notification recipient")
)
