package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/google/uuid"
)

type TransactionRepository struct {
	mu           sync.Mutex
	transactions map[string]domain.Transaction
	byKey        map[string]string
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]domain.Transaction),
		byKey:        make(map[string]string),
	}
}

func (r *TransactionRepository) Create(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Uniqueness over the idempotency key, same contract as the unique
	// index in postgres.
	if _, exists := r.byKey[tx.IdempotencyKey]; exists {
		return domain.Transaction{}, commons.ErrDuplicateKey
	}

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	r.transactions[tx.ID] = tx
	r.byKey[tx.IdempotencyKey] = tx.ID
	return tx, nil
}

func (r *TransactionRepository) Update(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.transactions[tx.ID]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}

	tx.CreatedAt = stored.CreatedAt
	tx.UpdatedAt = time.Now().UTC()
	r.transactions[tx.ID] = tx
	return tx, nil
}

func (r *TransactionRepository) Get(_ context.Context, id string) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transactions[id]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}
	return tx, nil
}

func (r *TransactionRepository) GetByIdempotencyKey(_ context.Context, key string) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byKey[key]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}
	return r.transactions[id], nil
}

func (r *TransactionRepository) ListByAccount(_ context.Context, accountID string) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Transaction
	for _, tx := range r.transactions {
		if tx.FromAccountID == accountID || tx.ToAccountID == accountID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
