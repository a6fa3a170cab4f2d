package memory

import (
	"context"
	"sync"
	"time"

	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/google/uuid"
)

type FraudCheckRepository struct {
	mu     sync.Mutex
	checks []domain.FraudCheck
}

func NewFraudCheckRepository() *FraudCheckRepository {
	return &FraudCheckRepository{}
}

func (r *FraudCheckRepository) Create(_ context.Context, check domain.FraudCheck) (domain.FraudCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if check.ID == "" {
		check.ID = uuid.NewString()
	}
	check.CreatedAt = time.Now().UTC()
	r.checks = append(r.checks, check)
	return check, nil
}

func (r *FraudCheckRepository) LatestByTransactionID(_ context.Context, transactionID string) (domain.FraudCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.checks) - 1; i >= 0; i-- {
		if r.checks[i].TransactionID == transactionID {
			return r.checks[i], nil
		}
	}
	return domain.FraudCheck{}, commons.ErrRecordNotFound
}
