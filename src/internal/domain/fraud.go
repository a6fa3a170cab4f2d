package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FraudReasonExceedsThreshold = "Amount exceeds fraud threshold"
	FraudReasonValid            = "Transaction is valid"
)

// FraudCheck is an append-only audit record; repeated evaluations of the same
// transaction each produce a new record.
type FraudCheck struct {
	ID            string
	TransactionID string
	Fraudulent    bool
	Reason        string
	CreatedAt     time.Time
}

// EvaluateFraud applies the threshold rule: flag amounts strictly above the
// configured threshold.
func EvaluateFraud(amount, threshold decimal.Decimal) (bool, string) {
	if amount.GreaterThan(threshold) {
		return true, FraudReasonExceedsThreshold
	}
	return false, FraudReasonValid
}
