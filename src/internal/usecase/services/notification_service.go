package services

import (
	"context"
	"strings"

	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/logger"
)

// Sender is the delivery channel boundary. Transport is a black box that
// either delivers or does not; it must never block for long.
type Sender interface {
	Send(ctx context.Context, recipient, message, channel string) error
}

// LogSender simulates delivery by logging the message. Real channel
// transports plug in behind the Sender interface.
type LogSender struct{}

func (LogSender) Send(_ context.Context, recipient, message, channel string) error {
	logger.Info("notification delivery simulated", logger.Fields{
		"recipient": recipient,
		"channel":   channel,
		"message":   message,
	})
	return nil
}

type NotificationService struct {
	notificationRepo domain.NotificationRepository
	sender           Sender
}

func NewNotificationService(notificationRepo domain.NotificationRepository, sender Sender) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, sender: sender}
}

// Send attempts delivery and records the outcome. It never fails the caller:
// a delivery or persistence problem is logged and reflected in the record
// status, nothing more. A transfer must never roll back because a
// notification could not be sent.
func (s *NotificationService) Send(ctx context.Context, userID, message, channel string) domain.Notification {
	notification := domain.Notification{
		UserID:  strings.TrimSpace(userID),
		Message: message,
		Channel: strings.ToUpper(strings.TrimSpace(channel)),
		Status:  domain.NotificationStatusPending,
	}

	if err := s.sender.Send(ctx, notification.UserID, notification.Message, notification.Channel); err != nil {
		logger.Error("notification service delivery failed", err, logger.Fields{
			"recipient": notification.UserID,
			"channel":   notification.Channel,
		})
		notification.Status = domain.NotificationStatusFailed
	} else {
		notification.Status = domain.NotificationStatusSent
	}

	saved, err := s.notificationRepo.Create(ctx, notification)
	if err != nil {
		logger.Error("notification service record failed", err, logger.Fields{
			"recipient": notification.UserID,
		})
		return notification
	}

	return saved
}

func (s *NotificationService) SendNotification(ctx context.Context, req models.NotificationRequest) (commons.Response[models.NotificationResponse], error) {
	logger.Info("notification service send request", logger.Fields{
		"userId":  req.UserID,
		"channel": req.Channel,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.NotificationResponse]("validation failed", err.Error()), err
	}

	notification := s.Send(ctx, req.UserID, req.Message, req.Channel)

	return commons.SuccessResponse("notification processed", models.NotificationResponse{
		ID:      notification.ID,
		UserID:  notification.UserID,
		Channel: notification.Channel,
		Status:  string(notification.Status),
	}), nil
}
