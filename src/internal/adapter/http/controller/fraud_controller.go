package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/commons"
)

type FraudService interface {
	CheckFraud(ctx context.Context, req models.FraudCheckRequest) (commons.Response[models.FraudCheckResponse], error)
	GetFraudStatus(ctx context.Context, transactionID string) (commons.Response[models.FraudCheckResponse], error)
}

type FraudController struct {
	service FraudService
}

func NewFraudController(service FraudService) *FraudController {
	return &FraudController{service: service}
}

func (c *FraudController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("POST /frauds/check", wrap(c.check))
	mux.Handle("GET /frauds/{transactionId}", wrap(c.status))
}

func (c *FraudController) check(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.FraudCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.FraudCheckResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		return
	}
	logRequest(r, req)

	response, err := c.service.CheckFraud(r.Context(), req)
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

func (c *FraudController) status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetFraudStatus(r.Context(), r.PathValue("transactionId"))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, commons.ErrRecordNotFound):
			status = http.StatusNotFound
		case response.Message == "validation failed":
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
