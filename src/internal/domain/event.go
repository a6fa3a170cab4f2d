package domain

import "github.com/shopspring/decimal"

// TransactionCreatedEvent is appended to the transaction event log for
// downstream audit and analytics consumers. Messages are keyed by transaction
// id so all records for one transaction land in the same partition, in order.
type TransactionCreatedEvent struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	OwnerEmail string          `json:"ownerEmail"`
}
