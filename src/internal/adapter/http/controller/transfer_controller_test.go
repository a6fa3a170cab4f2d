package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finpay/payments/src/internal/adapter/client"
	"github.com/finpay/payments/src/internal/adapter/events"
	"github.com/finpay/payments/src/internal/adapter/http/controller"
	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/adapter/repository/memory"
	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransferHandler(t *testing.T) (http.Handler, domain.Account, domain.Account) {
	t.Helper()

	accountRepo := memory.NewAccountRepository()
	accountService := services.NewAccountService(accountRepo)
	fraudService := services.NewFraudService(memory.NewFraudCheckRepository(), decimal.NewFromInt(10000))
	notificationService := services.NewNotificationService(memory.NewNotificationRepository(), services.LogSender{})

	service := services.NewTransferService(
		memory.NewTransactionRepository(),
		client.NewLocalAccountClient(accountService),
		client.NewLocalFraudClient(fraudService),
		client.NewLocalNotificationClient(notificationService),
		events.NewMemoryLog(4),
		0,
		services.SyncDispatcher,
	)

	alice, err := accountRepo.Create(context.Background(), domain.Account{
		OwnerEmail: "alice@example.com",
		Balance:    decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	bob, err := accountRepo.Create(context.Background(), domain.Account{
		OwnerEmail: "bob@example.com",
		Balance:    decimal.Zero,
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	controller.NewTransferController(service).RegisterRoutes(mux, nil)
	return mux, alice, bob
}

func postTransfer(t *testing.T, handler http.Handler, key string, req models.TransferRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	if key != "" {
		request.Header.Set("Idempotency-Key", key)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestTransferEndpointAccepted(t *testing.T) {
	handler, alice, bob := newTransferHandler(t)

	recorder := postTransfer(t, handler, "key-http", models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(25),
	})

	require.Equal(t, http.StatusAccepted, recorder.Code)

	var response commons.Response[models.TransactionResponse]
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.True(t, response.Success)
	require.NotNil(t, response.Data)
	assert.Equal(t, string(domain.TransactionStatusCompleted), response.Data.Status)
}

func TestTransferEndpointMissingIdempotencyKey(t *testing.T) {
	handler, alice, bob := newTransferHandler(t)

	recorder := postTransfer(t, handler, "", models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(25),
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestTransferEndpointBusinessFailureIsNotServerError(t *testing.T) {
	handler, alice, bob := newTransferHandler(t)

	recorder := postTransfer(t, handler, "key-http-fail", models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(99999),
	})

	// Fraud rejection is a settled outcome, not a 5xx.
	require.Equal(t, http.StatusAccepted, recorder.Code)

	var response commons.Response[models.TransactionResponse]
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.False(t, response.Success)
	require.NotNil(t, response.Data)
	assert.Equal(t, string(domain.TransactionStatusFailed), response.Data.Status)
}

func TestTransferStatusEndpoint(t *testing.T) {
	handler, alice, bob := newTransferHandler(t)

	created := postTransfer(t, handler, "key-http-status", models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(10),
	})
	var response commons.Response[models.TransactionResponse]
	require.NoError(t, json.NewDecoder(created.Body).Decode(&response))

	request := httptest.NewRequest(http.MethodGet, "/transfers/"+response.Data.ID, nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)

	request = httptest.NewRequest(http.MethodGet, "/transfers/unknown-id", nil)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
