package services_test

import (
	"context"
	"testing"

	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/adapter/repository/memory"
	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFraudService() (*services.FraudService, *memory.FraudCheckRepository) {
	repo := memory.NewFraudCheckRepository()
	return services.NewFraudService(repo, decimal.NewFromInt(10000)), repo
}

func TestFraudCheckVerdicts(t *testing.T) {
	service, _ := newFraudService()

	tests := []struct {
		name       string
		amount     int64
		fraudulent bool
		reason     string
	}{
		{name: "below threshold", amount: 9999, fraudulent: false, reason: domain.FraudReasonValid},
		{name: "at threshold", amount: 10000, fraudulent: false, reason: domain.FraudReasonValid},
		{name: "above threshold", amount: 10001, fraudulent: true, reason: domain.FraudReasonExceedsThreshold},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			check, err := service.Check(context.Background(), "tx-1", decimal.NewFromInt(tc.amount))
			require.NoError(t, err)
			assert.Equal(t, tc.fraudulent, check.Fraudulent)
			assert.Equal(t, tc.reason, check.Reason)
		})
	}
}

func TestFraudCheckRecordsEveryEvaluation(t *testing.T) {
	service, _ := newFraudService()

	_, err := service.Check(context.Background(), "tx-audit", decimal.NewFromInt(500))
	require.NoError(t, err)
	_, err = service.Check(context.Background(), "tx-audit", decimal.NewFromInt(20000))
	require.NoError(t, err)

	// The stored verdict is the latest one.
	resp, err := service.GetFraudStatus(context.Background(), "tx-audit")
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.True(t, resp.Data.Fraudulent)
	assert.Equal(t, domain.FraudReasonExceedsThreshold, resp.Data.Reason)
}

func TestCheckFraudEnvelope(t *testing.T) {
	service, _ := newFraudService()

	resp, err := service.CheckFraud(context.Background(), models.FraudCheckRequest{
		TransactionID: "tx-2",
		Amount:        decimal.NewFromInt(15000),
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.True(t, resp.Data.Fraudulent)

	_, err = service.CheckFraud(context.Background(), models.FraudCheckRequest{})
	require.Error(t, err)
}

func TestGetFraudStatusNotFound(t *testing.T) {
	service, _ := newFraudService()

	resp, err := service.GetFraudStatus(context.Background(), "unknown")
	require.ErrorIs(t, err, commons.ErrRecordNotFound)
	assert.False(t, resp.Success)
}
