package memory

import (
	"context"
	"sync"
	"time"

	"github.com/finpay/payments/src/internal/domain"
	"github.com/google/uuid"
)

type NotificationRepository struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(_ context.Context, notification domain.Notification) (domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	notification.CreatedAt = time.Now().UTC()
	r.notifications = append(r.notifications, notification)
	return notification, nil
}

// All returns a copy of every recorded notification; test hook.
func (r *NotificationRepository) All() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}
