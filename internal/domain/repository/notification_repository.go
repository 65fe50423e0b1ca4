package repository

import "context"

// NotificationRepository delivers a rendered message to its recipients
type NotificationRepository interface {
	Send(ctx context.Context, subject, body string) error
}
