package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// allowedTransitions is the whole status state machine. PENDING may settle
// either way, FAILED may be reset to PENDING on a client retry, COMPLETED is
// terminal and never retried or reversed.
var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusPending: {TransactionStatusCompleted, TransactionStatusFailed},
	TransactionStatusFailed:  {TransactionStatusPending},
}

func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Transaction is the durable record of one logical transfer. Exactly one
// transaction ever exists per idempotency key; the row is created before any
// remote call is made and is never deleted.
type Transaction struct {
	ID             string
	FromAccountID  string
	ToAccountID    string
	Amount         decimal.Decimal
	Status         TransactionStatus
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t *Transaction) TransitionTo(target TransactionStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return fmt.Errorf("invalid transaction status transition %s -> %s", t.Status, target)
	}
	t.Status = target
	return nil
}
