package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/finpay/payments/src/internal/adapter/client"
	"github.com/finpay/payments/src/internal/adapter/events"
	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/adapter/repository/memory"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transferFixture struct {
	accounts      *memory.AccountRepository
	transactions  *memory.TransactionRepository
	notifications *memory.NotificationRepository
	events        *events.MemoryLog
	service       *services.TransferService
}

func newTransferFixture(t *testing.T) *transferFixture {
	t.Helper()

	accountRepo := memory.NewAccountRepository()
	transactionRepo := memory.NewTransactionRepository()
	fraudRepo := memory.NewFraudCheckRepository()
	notificationRepo := memory.NewNotificationRepository()
	eventLog := events.NewMemoryLog(4)

	accountService := services.NewAccountService(accountRepo)
	fraudService := services.NewFraudService(fraudRepo, decimal.NewFromInt(10000))
	notificationService := services.NewNotificationService(notificationRepo, services.LogSender{})

	service := services.NewTransferService(
		transactionRepo,
		client.NewLocalAccountClient(accountService),
		client.NewLocalFraudClient(fraudService),
		client.NewLocalNotificationClient(notificationService),
		eventLog,
		0,
		services.SyncDispatcher,
	)

	return &transferFixture{
		accounts:      accountRepo,
		transactions:  transactionRepo,
		notifications: notificationRepo,
		events:        eventLog,
		service:       service,
	}
}

func (f *transferFixture) createAccount(t *testing.T, ownerEmail string, balance int64) domain.Account {
	t.Helper()
	account, err := f.accounts.Create(context.Background(), domain.Account{
		OwnerEmail: ownerEmail,
		Balance:    decimal.NewFromInt(balance),
	})
	require.NoError(t, err)
	return account
}

func (f *transferFixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	account, err := f.accounts.Get(context.Background(), accountID)
	require.NoError(t, err)
	return account.Balance
}

func TestTransferMovesBalanceAndCompletes(t *testing.T) {
	f := newTransferFixture(t)
	alice := f.createAccount(t, "alice@example.com", 100)
	bob := f.createAccount(t, "bob@example.com", 0)

	resp, err := f.service.Transfer(context.Background(), "key-1", models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, string(domain.TransactionStatusCompleted), resp.Data.Status)

	assert.True(t, f.balance(t, alice.ID).Equal(decimal.NewFromInt(70)))
	assert.True(t, f.balance(t, bob.ID).Equal(decimal.NewFromInt(30)))

	stored, err := f.transactions.Get(context.Background(), resp.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, stored.Status)
	assert.Equal(t, "key-1", stored.IdempotencyKey)

	notifications := f.notifications.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, "alice@example.com", notifications[0].UserID)
	assert.Equal(t, "Transaction Completed Successfully", notifications[0].Message)
	assert.Equal(t, domain.NotificationChannelEmail, notifications[0].Channel)

	published := f.events.All()
	require.Len(t, published, 1)
	assert.Equal(t, resp.Data.ID, published[0].ID)
	assert.Equal(t, "alice@example.com", published[0].OwnerEmail)
	// Events for the same transaction land on the same partition.
	assert.Len(t, f.events.Partition(resp.Data.ID), 1)
}

func TestTransferSameKeyReturnsSameTransaction(t *testing.T) {
	f := newTransferFixture(t)
	alice := f.createAccount(t, "alice@example.com", 100)
	bob := f.createAccount(t, "bob@example.com", 0)

	req := models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(30),
	}

	first, err := f.service.Transfer(context.Background(), "key-replay", req)
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := f.service.Transfer(context.Background(), "key-replay", req)
	require.NoError(t, err)
	require.True(t, second.Success)
	require.NotNil(t, second.Data)

	assert.Equal(t, first.Data.ID, second.Data.ID)
	assert.Equal(t, string(domain.TransactionStatusCompleted), second.Data.Status)

	// The replay must not move money or publish again.
	assert.True(t, f.balance(t, alice.ID).Equal(decimal.NewFromInt(70)))
	assert.True(t, f.balance(t, bob.ID).Equal(decimal.NewFromInt(30)))
	assert.Len(t, f.events.All(), 1)
}

func TestTransferFlaggedAsFraudulent(t *testing.T) {
	f := newTransferFixture(t)
	alice := f.createAccount(t, "alice@example.com", 20000)
	bob := f.createAccount(t, "bob@example.com", 0)

	resp, err := f.service.Transfer(context.Background(), "key-fraud", models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(15000),
	})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, string(domain.TransactionStatusFailed), resp.Data.Status)
	assert.Contains(t, resp.Errors, "Amount exceeds fraud threshold")

	// A flagged transaction never touches the ledger.
	assert.True(t, f.balance(t, alice.ID).Equal(decimal.NewFromInt(20000)))
	assert.True(t, f.balance(t, bob.ID).Equal(decimal.Zero))
	assert.Empty(t, f.events.All())
	assert.Empty(t, f.notifications.All())
}

func TestTransferAtThresholdIsNotFlagged(t *testing.T) {
	f := newTransferFixture(t)
	alice := f.createAccount(t, "alice@example.com", 10000)
	bob := f.createAccount(t, "bob@example.com", 0)

	resp, err := f.service.Transfer(context.Background(), "key-threshold", models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(10000),
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.True(t, f.balance(t, bob.ID).Equal(decimal.NewFromInt(10000)))
}

func TestTransferInsufficientBalanceThenRetrySucceeds(t *testing.T) {
	f := newTransferFixture(t)
	alice := f.createAccount(t, "alice@example.com", 10)
	bob := f.createAccount(t, "bob@example.com", 0)

	req := models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(50),
	}

	failed, err := f.service.Transfer(context.Background(), "key-retry", req)
	require.NoError(t, err)
	require.False(t, failed.Success)
	require.NotNil(t, failed.Data)
	assert.Equal(t, string(domain.TransactionStatusFailed), failed.Data.Status)
	assert.Contains(t, failed.Errors, "Insufficient balance")
	assert.True(t, f.balance(t, alice.ID).Equal(decimal.NewFromInt(10)))

	notifications := f.notifications.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, "Transaction failed. Please try again.", notifications[0].Message)

	// Fund the source account, then retry with the same key.
	_, err = f.accounts.Credit(context.Background(), alice.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	retried, err := f.service.Transfer(context.Background(), "key-retry", req)
	require.NoError(t, err)
	require.True(t, retried.Success)
	require.NotNil(t, retried.Data)

	// The same transaction row is reused, not a second one created.
	assert.Equal(t, failed.Data.ID, retried.Data.ID)
	assert.Equal(t, string(domain.TransactionStatusCompleted), retried.Data.Status)
	assert.True(t, f.balance(t, alice.ID).Equal(decimal.NewFromInt(60)))
	assert.True(t, f.balance(t, bob.ID).Equal(decimal.NewFromInt(50)))
	assert.Len(t, f.events.All(), 1)
}

func TestTransferCreditFailureLeavesTransactionFailed(t *testing.T) {
	f := newTransferFixture(t)
	alice := f.createAccount(t, "alice@example.com", 100)

	resp, err := f.service.Transfer(context.Background(), "key-missing-dest", models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   "no-such-account",
		Amount:        decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, string(domain.TransactionStatusFailed), resp.Data.Status)
	assert.Contains(t, resp.Errors, "Account not found")

	// The debit is not reversed when the credit leg fails.
	assert.True(t, f.balance(t, alice.ID).Equal(decimal.NewFromInt(70)))
	assert.Empty(t, f.events.All())
}

func TestTransferConcurrentSameKeyDebitsOnce(t *testing.T) {
	f := newTransferFixture(t)
	alice := f.createAccount(t, "alice@example.com", 100)
	bob := f.createAccount(t, "bob@example.com", 0)

	req := models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(30),
	}

	const callers = 8
	responses := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.service.Transfer(context.Background(), "key-race", req)
			if err == nil && resp.Data != nil {
				responses[i] = resp.Data.ID
			}
		}(i)
	}
	wg.Wait()

	assert.True(t, f.balance(t, alice.ID).Equal(decimal.NewFromInt(70)))
	assert.True(t, f.balance(t, bob.ID).Equal(decimal.NewFromInt(30)))

	for i := 1; i < callers; i++ {
		assert.Equal(t, responses[0], responses[i])
	}
}

func TestTransferValidation(t *testing.T) {
	f := newTransferFixture(t)
	alice := f.createAccount(t, "alice@example.com", 100)

	tests := []struct {
		name string
		key  string
		req  models.TransferRequest
	}{
		{
			name: "missing idempotency key",
			key:  "",
			req: models.TransferRequest{
				FromAccountID: alice.ID,
				ToAccountID:   "other",
				Amount:        decimal.NewFromInt(10),
			},
		},
		{
			name: "same source and destination",
			key:  "key-v1",
			req: models.TransferRequest{
				FromAccountID: alice.ID,
				ToAccountID:   alice.ID,
				Amount:        decimal.NewFromInt(10),
			},
		},
		{
			name: "non-positive amount",
			key:  "key-v2",
			req: models.TransferRequest{
				FromAccountID: alice.ID,
				ToAccountID:   "other",
				Amount:        decimal.Zero,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := f.service.Transfer(context.Background(), tc.key, tc.req)
			require.Error(t, err)
			assert.False(t, resp.Success)
		})
	}

	// Rejected requests never reach the ledger or the transaction store.
	assert.True(t, f.balance(t, alice.ID).Equal(decimal.NewFromInt(100)))
	listed, err := f.transactions.ListByAccount(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestGetStatus(t *testing.T) {
	f := newTransferFixture(t)
	alice := f.createAccount(t, "alice@example.com", 100)
	bob := f.createAccount(t, "bob@example.com", 0)

	created, err := f.service.Transfer(context.Background(), "key-status", models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	resp, err := f.service.GetStatus(context.Background(), created.Data.ID)
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, string(domain.TransactionStatusCompleted), resp.Data.Status)

	_, err = f.service.GetStatus(context.Background(), "missing")
	require.Error(t, err)
}

func TestGetTransactionsByAccount(t *testing.T) {
	f := newTransferFixture(t)
	alice := f.createAccount(t, "alice@example.com", 100)
	bob := f.createAccount(t, "bob@example.com", 100)
	carol := f.createAccount(t, "carol@example.com", 100)

	_, err := f.service.Transfer(context.Background(), "key-list-1", models.TransferRequest{
		FromAccountID: alice.ID,
		ToAccountID:   bob.ID,
		Amount:        decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	_, err = f.service.Transfer(context.Background(), "key-list-2", models.TransferRequest{
		FromAccountID: carol.ID,
		ToAccountID:   alice.ID,
		Amount:        decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	resp, err := f.service.GetTransactionsByAccount(context.Background(), alice.ID)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Len(t, *resp.Data, 2)

	resp, err = f.service.GetTransactionsByAccount(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Len(t, *resp.Data, 1)
}
