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

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error)
	DebitAccount(ctx context.Context, req models.BalanceMutationRequest) (commons.Response[models.AccountResponse], error)
	CreditAccount(ctx context.Context, req models.BalanceMutationRequest) (commons.Response[models.AccountResponse], error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("POST /accounts", wrap(c.create))
	mux.Handle("GET /accounts/{id}", wrap(c.get))
	mux.Handle("POST /accounts/debit", wrap(c.debit))
	mux.Handle("POST /accounts/credit", wrap(c.credit))
}

func (c *AccountController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateAccount(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *AccountController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetAccount(r.Context(), r.PathValue("id"))
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

func (c *AccountController) debit(w http.ResponseWriter, r *http.Request) {
	c.mutate(w, r, c.service.DebitAccount)
}

func (c *AccountController) credit(w http.ResponseWriter, r *http.Request) {
	c.mutate(w, r, c.service.CreditAccount)
}

func (c *AccountController) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, req models.BalanceMutationRequest) (commons.Response[models.AccountResponse], error),
) {
	start := time.Now()

	var req models.BalanceMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		return
	}
	logRequest(r, req)

	response, err := op(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, commons.ErrRecordNotFound):
			status = http.StatusNotFound
		case errors.Is(err, commons.ErrInsufficientBalance):
			status = http.StatusUnprocessableEntity
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
