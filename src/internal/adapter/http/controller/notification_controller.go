package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/commons"
)

type NotificationService interface {
	SendNotification(ctx context.Context, req models.NotificationRequest) (commons.Response[models.NotificationResponse], error)
}

type NotificationController struct {
	service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{service: service}
}

func (c *NotificationController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.Handler(http.HandlerFunc(c.send))
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}
	mux.Handle("POST /notifications", handler)
}

func (c *NotificationController) send(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.NotificationResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		return
	}
	logRequest(r, req)

	response, err := c.service.SendNotification(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
