package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type FraudCheckRequest struct {
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
}

func (r FraudCheckRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.TransactionID) == "" {
		errs = append(errs, "transactionId is required")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type FraudCheckResponse struct {
	TransactionID string `json:"transactionId"`
	Fraudulent    bool   `json:"fraudulent"`
	Reason        string `json:"reason"`
}
