package memory

import (
	"context"
	"sync"
	"time"

	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository keeps accounts in process memory. Debit and credit hold
// the store mutex for the whole read-check-write, giving the same per-account
// serialization the postgres implementation gets from row-guarded updates.
type AccountRepository struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	byEmail  map[string]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]domain.Account),
		byEmail:  make(map[string]string),
	}
}

func (r *AccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.OwnerEmail]; exists {
		return domain.Account{}, commons.ErrDuplicateKey
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.accounts[account.ID] = account
	r.byEmail[account.OwnerEmail] = account.ID
	return account, nil
}

func (r *AccountRepository) Get(_ context.Context, id string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return account, nil
}

func (r *AccountRepository) Debit(_ context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	if account.Balance.LessThan(amount) {
		return domain.Account{}, commons.ErrInsufficientBalance
	}

	account.Balance = account.Balance.Sub(amount)
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return account, nil
}

func (r *AccountRepository) Credit(_ context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}

	account.Balance = account.Balance.Add(amount)
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return account, nil
}
