package domain

import "time"

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

const NotificationChannelEmail = "EMAIL"

// Notification is purely observational; the transfer pipeline never reads it
// back.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	Channel   string
	Status    NotificationStatus
	CreatedAt time.Time
}
