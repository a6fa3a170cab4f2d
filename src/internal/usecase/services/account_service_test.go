package services_test

import (
	"context"
	"testing"

	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/adapter/repository/memory"
	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService() (*services.AccountService, *memory.AccountRepository) {
	repo := memory.NewAccountRepository()
	return services.NewAccountService(repo), repo
}

func accountWithBalance(ownerEmail string, balance int64) domain.Account {
	return domain.Account{OwnerEmail: ownerEmail, Balance: decimal.NewFromInt(balance)}
}

func TestCreateAccount(t *testing.T) {
	service, _ := newAccountService()
	initial := decimal.NewFromInt(250)

	resp, err := service.CreateAccount(context.Background(), models.CreateAccountRequest{
		OwnerEmail:     "  Alice@Example.com ",
		InitialBalance: &initial,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "alice@example.com", resp.Data.OwnerEmail)
	assert.True(t, resp.Data.Balance.Equal(initial))
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	service, _ := newAccountService()

	_, err := service.CreateAccount(context.Background(), models.CreateAccountRequest{OwnerEmail: "alice@example.com"})
	require.NoError(t, err)

	resp, err := service.CreateAccount(context.Background(), models.CreateAccountRequest{OwnerEmail: "alice@example.com"})
	require.ErrorIs(t, err, commons.ErrDuplicateKey)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors, "ownerEmail already has an account")
}

func TestCreateAccountValidation(t *testing.T) {
	service, _ := newAccountService()
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name string
		req  models.CreateAccountRequest
	}{
		{name: "missing email", req: models.CreateAccountRequest{}},
		{name: "malformed email", req: models.CreateAccountRequest{OwnerEmail: "not-an-email"}},
		{name: "negative balance", req: models.CreateAccountRequest{OwnerEmail: "a@b.com", InitialBalance: &negative}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := service.CreateAccount(context.Background(), tc.req)
			require.Error(t, err)
			assert.False(t, resp.Success)
		})
	}
}

func TestDebitAccount(t *testing.T) {
	service, repo := newAccountService()
	account, err := repo.Create(context.Background(), accountWithBalance("alice@example.com", 100))
	require.NoError(t, err)

	resp, err := service.DebitAccount(context.Background(), models.BalanceMutationRequest{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.True(t, resp.Data.Balance.Equal(decimal.NewFromInt(60)))
}

func TestDebitAccountInsufficientBalance(t *testing.T) {
	service, repo := newAccountService()
	account, err := repo.Create(context.Background(), accountWithBalance("alice@example.com", 10))
	require.NoError(t, err)

	resp, err := service.DebitAccount(context.Background(), models.BalanceMutationRequest{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(40),
	})
	require.ErrorIs(t, err, commons.ErrInsufficientBalance)
	assert.False(t, resp.Success)
	assert.Equal(t, "Insufficient balance", resp.Message)

	// A refused debit leaves the balance untouched.
	stored, err := repo.Get(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(10)))
}

func TestCreditAccountNotFound(t *testing.T) {
	service, _ := newAccountService()

	resp, err := service.CreditAccount(context.Background(), models.BalanceMutationRequest{
		AccountID: "missing",
		Amount:    decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, commons.ErrRecordNotFound)
	assert.False(t, resp.Success)
	assert.Equal(t, "Account not found", resp.Message)
}

func TestGetAccount(t *testing.T) {
	service, repo := newAccountService()
	account, err := repo.Create(context.Background(), accountWithBalance("alice@example.com", 100))
	require.NoError(t, err)

	resp, err := service.GetAccount(context.Background(), account.ID)
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, account.ID, resp.Data.ID)

	_, err = service.GetAccount(context.Background(), "missing")
	require.ErrorIs(t, err, commons.ErrRecordNotFound)
}
