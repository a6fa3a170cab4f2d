// Package clients declares the downstream collaborators the transfer
// orchestrator depends on. Each has one implementation per transport: an
// in-process adapter over the local services and an HTTP client for a
// split-service deployment.
package clients

import (
	"context"

	"github.com/finpay/payments/src/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountClient interface {
	GetAccount(ctx context.Context, accountID string) (domain.Account, error)
	Debit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error)
	Credit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error)
}

type FraudClient interface {
	CheckFraud(ctx context.Context, transactionID string, amount decimal.Decimal) (domain.FraudCheck, error)
}

// NotificationClient delivery is best-effort: the orchestrator dispatches it
// off the critical path and only logs a returned error.
type NotificationClient interface {
	Notify(ctx context.Context, userID, message, channel string) error
}

type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, event domain.TransactionCreatedEvent) error
}
