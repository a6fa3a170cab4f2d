package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/logger"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository create", logger.Fields{
		"transactionId":  tx.ID,
		"idempotencyKey": tx.IdempotencyKey,
		"status":         tx.Status,
	})

	const query = `
INSERT INTO transactions (
	id,
	from_account_id,
	to_account_id,
	amount,
	status,
	idempotency_key
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		tx.ID,
		tx.FromAccountID,
		tx.ToAccountID,
		tx.Amount,
		tx.Status,
		tx.IdempotencyKey,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.Transaction{}, commons.ErrDuplicateKey
		}
		logger.Error("transaction repository create failed", err, logger.Fields{
			"idempotencyKey": tx.IdempotencyKey,
		})
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	const query = `
UPDATE transactions
SET status = $2,
    updated_at = NOW()
WHERE id = $1
RETURNING created_at, updated_at`

	if err := r.db.QueryRowContext(ctx, query, tx.ID, tx.Status).Scan(
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, commons.ErrRecordNotFound
		}
		logger.Error("transaction repository update failed", err, logger.Fields{
			"transactionId": tx.ID,
		})
		return domain.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	logger.Info("transaction repository update success", logger.Fields{
		"transactionId": tx.ID,
		"status":        tx.Status,
	})

	return tx, nil
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (domain.Transaction, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (domain.Transaction, error) {
	return r.getOne(ctx, `WHERE idempotency_key = $1`, key)
}

func (r *TransactionRepository) getOne(ctx context.Context, where, arg string) (domain.Transaction, error) {
	query := `
SELECT id, from_account_id, to_account_id, amount, status, idempotency_key, created_at, updated_at
FROM transactions ` + where

	var tx domain.Transaction
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&tx.ID,
		&tx.FromAccountID,
		&tx.ToAccountID,
		&tx.Amount,
		&tx.Status,
		&tx.IdempotencyKey,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, commons.ErrRecordNotFound
		}
		return domain.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	const query = `
SELECT id, from_account_id, to_account_id, amount, status, idempotency_key, created_at, updated_at
FROM transactions
WHERE from_account_id = $1 OR to_account_id = $1
ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.FromAccountID,
			&tx.ToAccountID,
			&tx.Amount,
			&tx.Status,
			&tx.IdempotencyKey,
			&tx.CreatedAt,
			&tx.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}
