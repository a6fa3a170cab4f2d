package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/logger"
)

type TransferService interface {
	Transfer(ctx context.Context, idempotencyKey string, req models.TransferRequest) (commons.Response[models.TransactionResponse], error)
	GetStatus(ctx context.Context, id string) (commons.Response[models.TransactionResponse], error)
	GetTransactionsByAccount(ctx context.Context, accountID string) (commons.Response[[]models.TransactionResponse], error)
}

type TransferController struct {
	service TransferService
}

func NewTransferController(service TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("POST /transfers", wrap(c.transfer))
	mux.Handle("GET /transfers/{id}", wrap(c.status))
	mux.Handle("GET /transfers/account/{accountId}", wrap(c.byAccount))
}

func (c *TransferController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	idempotencyKey := r.Header.Get("Idempotency-Key")

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Transfer(r.Context(), idempotencyKey, req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		if response.Message == "validation failed" || response.Message == "invalid request body" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	// Business failures (fraud, insufficient balance, downstream trouble)
	// still carry a transaction representation and are not server errors:
	// the client reads the status field and decides whether to retry with
	// the same key.
	writeJSON(w, http.StatusAccepted, response)
	logResponse(r, http.StatusAccepted, response, start)
}

func (c *TransferController) status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetStatus(r.Context(), r.PathValue("id"))
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

func (c *TransferController) byAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetTransactionsByAccount(r.Context(), r.PathValue("accountId"))
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
