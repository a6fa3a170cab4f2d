package services

import (
	"context"
	"errors"
	"strings"

	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/logger"
	"github.com/finpay/payments/src/internal/metrics"
	"github.com/shopspring/decimal"
)

type FraudService struct {
	fraudRepo domain.FraudCheckRepository
	threshold decimal.Decimal
}

func NewFraudService(fraudRepo domain.FraudCheckRepository, threshold decimal.Decimal) *FraudService {
	return &FraudService{fraudRepo: fraudRepo, threshold: threshold}
}

// Check evaluates the threshold rule and records the verdict. Every call
// appends a new record; callers wanting the stored verdict must consult
// GetFraudStatus.
func (s *FraudService) Check(ctx context.Context, transactionID string, amount decimal.Decimal) (domain.FraudCheck, error) {
	fraudulent, reason := domain.EvaluateFraud(amount, s.threshold)

	check, err := s.fraudRepo.Create(ctx, domain.FraudCheck{
		TransactionID: transactionID,
		Fraudulent:    fraudulent,
		Reason:        reason,
	})
	if err != nil {
		logger.Error("fraud service record verdict failed", err, logger.Fields{
			"transactionId": transactionID,
		})
		return domain.FraudCheck{}, err
	}

	if fraudulent {
		metrics.FraudFlaggedTotal.Inc()
		logger.Warn("fraud service flagged transaction", logger.Fields{
			"transactionId": transactionID,
			"amount":        amount,
			"reason":        reason,
		})
	}

	return check, nil
}

func (s *FraudService) CheckFraud(ctx context.Context, req models.FraudCheckRequest) (commons.Response[models.FraudCheckResponse], error) {
	logger.Info("fraud service check request", logger.Fields{
		"transactionId": req.TransactionID,
		"amount":        req.Amount,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.FraudCheckResponse]("validation failed", err.Error()), err
	}

	check, err := s.Check(ctx, strings.TrimSpace(req.TransactionID), req.Amount)
	if err != nil {
		return commons.ErrorResponse[models.FraudCheckResponse]("failed to check fraud", "Unable to evaluate transaction right now"), err
	}

	return commons.SuccessResponse("fraud check completed", mapFraudCheckToResponse(check)), nil
}

func (s *FraudService) GetFraudStatus(ctx context.Context, transactionID string) (commons.Response[models.FraudCheckResponse], error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		err := errors.New("transactionId is required")
		return commons.ErrorResponse[models.FraudCheckResponse]("validation failed", err.Error()), err
	}

	check, err := s.fraudRepo.LatestByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.FraudCheckResponse]("FraudCheck not found"), err
		}
		logger.Error("fraud service get status failed", err, logger.Fields{
			"transactionId": transactionID,
		})
		return commons.ErrorResponse[models.FraudCheckResponse]("failed to fetch fraud status", "Unable to fetch fraud status right now"), err
	}

	return commons.SuccessResponse("fraud status fetched successfully", mapFraudCheckToResponse(check)), nil
}

func mapFraudCheckToResponse(check domain.FraudCheck) models.FraudCheckResponse {
	return models.FraudCheckResponse{
		TransactionID: check.TransactionID,
		Fraudulent:    check.Fraudulent,
		Reason:        check.Reason,
	}
}
