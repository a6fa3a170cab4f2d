package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account balances only ever change through Debit/Credit on the repository;
// the balance is never allowed to go negative.
type Account struct {
	ID         string
	OwnerEmail string
	Balance    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
