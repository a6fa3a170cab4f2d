package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finpay/payments/src/internal/domain"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	const query = `
INSERT INTO notifications (user_id, message, channel, status)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		notification.UserID,
		notification.Message,
		notification.Channel,
		notification.Status,
	).Scan(&notification.ID, &notification.CreatedAt); err != nil {
		return domain.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	return notification, nil
}
