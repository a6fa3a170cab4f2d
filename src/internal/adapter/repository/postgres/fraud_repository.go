package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
)

type FraudCheckRepository struct {
	db *sql.DB
}

func NewFraudCheckRepository(db *sql.DB) *FraudCheckRepository {
	return &FraudCheckRepository{db: db}
}

// Create appends a verdict record; fraud checks are append-only audit data.
func (r *FraudCheckRepository) Create(ctx context.Context, check domain.FraudCheck) (domain.FraudCheck, error) {
	const query = `
INSERT INTO fraud_checks (transaction_id, fraudulent, reason)
VALUES ($1, $2, $3)
RETURNING id, created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		check.TransactionID,
		check.Fraudulent,
		check.Reason,
	).Scan(&check.ID, &check.CreatedAt); err != nil {
		return domain.FraudCheck{}, fmt.Errorf("create fraud check: %w", err)
	}

	return check, nil
}

func (r *FraudCheckRepository) LatestByTransactionID(ctx context.Context, transactionID string) (domain.FraudCheck, error) {
	const query = `
SELECT id, transaction_id, fraudulent, reason, created_at
FROM fraud_checks
WHERE transaction_id = $1
ORDER BY created_at DESC
LIMIT 1`

	var check domain.FraudCheck
	if err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&check.ID,
		&check.TransactionID,
		&check.Fraudulent,
		&check.Reason,
		&check.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.FraudCheck{}, commons.ErrRecordNotFound
		}
		return domain.FraudCheck{}, fmt.Errorf("get fraud check: %w", err)
	}

	return check, nil
}
