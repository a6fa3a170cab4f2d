package domain_test

import (
	"testing"

	"github.com/finpay/payments/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateFraudThreshold(t *testing.T) {
	threshold := decimal.NewFromInt(10000)

	fraudulent, reason := domain.EvaluateFraud(decimal.NewFromInt(15000), threshold)
	assert.True(t, fraudulent)
	assert.Equal(t, domain.FraudReasonExceedsThreshold, reason)

	fraudulent, reason = domain.EvaluateFraud(decimal.NewFromInt(9999), threshold)
	assert.False(t, fraudulent)
	assert.Equal(t, domain.FraudReasonValid, reason)

	// Exactly at the threshold is not flagged.
	fraudulent, _ = domain.EvaluateFraud(threshold, threshold)
	assert.False(t, fraudulent)
}
