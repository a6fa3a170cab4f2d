package models

import (
	"errors"
	"strings"
)

type NotificationRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Channel string `json:"channel"`
}

func (r NotificationRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "userId is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		errs = append(errs, "message is required")
	}
	if strings.TrimSpace(r.Channel) == "" {
		errs = append(errs, "channel is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type NotificationResponse struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Channel string `json:"channel"`
	Status  string `json:"status"`
}
