package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	OwnerEmail     string           `json:"ownerEmail"`
	InitialBalance *decimal.Decimal `json:"initialBalance,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	ownerEmail := strings.TrimSpace(r.OwnerEmail)
	if ownerEmail == "" {
		errs = append(errs, "ownerEmail is required")
	} else if !strings.Contains(ownerEmail, "@") {
		errs = append(errs, "ownerEmail must be a valid email address")
	}
	if r.InitialBalance != nil && r.InitialBalance.IsNegative() {
		errs = append(errs, "initialBalance cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type BalanceMutationRequest struct {
	AccountID string          `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r BalanceMutationRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AccountResponse struct {
	ID         string          `json:"id"`
	OwnerEmail string          `json:"ownerEmail"`
	Balance    decimal.Decimal `json:"balance"`
}
