package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Create(ctx context.Context, account Account) (Account, error)
	Get(ctx context.Context, id string) (Account, error)
	// Debit fails with commons.ErrInsufficientBalance when balance < amount
	// and leaves the balance unchanged. Both mutations are atomic with
	// respect to concurrent mutations on the same account.
	Debit(ctx context.Context, id string, amount decimal.Decimal) (Account, error)
	Credit(ctx context.Context, id string, amount decimal.Decimal) (Account, error)
}

type TransactionRepository interface {
	// Create fails with commons.ErrDuplicateKey when a transaction already
	// exists for the idempotency key.
	Create(ctx context.Context, transaction Transaction) (Transaction, error)
	Update(ctx context.Context, transaction Transaction) (Transaction, error)
	Get(ctx context.Context, id string) (Transaction, error)
	GetByIdempotencyKey(ctx context.Context, key string) (Transaction, error)
	ListByAccount(ctx context.Context, accountID string) ([]Transaction, error)
}

type FraudCheckRepository interface {
	Create(ctx context.Context, check FraudCheck) (FraudCheck, error)
	LatestByTransactionID(ctx context.Context, transactionID string) (FraudCheck, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification Notification) (Notification, error)
}
