package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/logger"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
INSERT INTO accounts (owner_email, balance)
VALUES ($1, $2)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.OwnerEmail,
		account.Balance,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, commons.ErrDuplicateKey
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Get(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT id, owner_email, balance, created_at, updated_at
FROM accounts
WHERE id = $1`

	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.OwnerEmail,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}

// Debit applies a guarded single-statement update. The balance check and the
// subtraction happen in one atomic statement, so concurrent debits against
// the same row serialize on the row lock and the balance can never go
// negative.
func (r *AccountRepository) Debit(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	const query = `
UPDATE accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND balance >= $2::numeric
RETURNING id, owner_email, balance, created_at, updated_at`

	account, err := r.mutateBalance(ctx, query, id, amount)
	if err != nil {
		logger.Error("account repository debit failed", err, logger.Fields{
			"accountId": id,
			"amount":    amount,
		})
		return domain.Account{}, err
	}

	return account, nil
}

func (r *AccountRepository) Credit(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	const query = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1
RETURNING id, owner_email, balance, created_at, updated_at`

	account, err := r.mutateBalance(ctx, query, id, amount)
	if err != nil {
		logger.Error("account repository credit failed", err, logger.Fields{
			"accountId": id,
			"amount":    amount,
		})
		return domain.Account{}, err
	}

	return account, nil
}

func (r *AccountRepository) mutateBalance(ctx context.Context, query, id string, amount decimal.Decimal) (domain.Account, error) {
	var account domain.Account
	err := r.db.QueryRowContext(ctx, query, id, amount).Scan(
		&account.ID,
		&account.OwnerEmail,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("mutate balance: %w", err)
	}

	// No row matched: either the account does not exist or the balance
	// guard rejected the debit.
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return domain.Account{}, fmt.Errorf("check account existence: %w", err)
	}
	if !exists {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return domain.Account{}, commons.ErrInsufficientBalance
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
