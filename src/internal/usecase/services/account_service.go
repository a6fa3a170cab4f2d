package services

import (
	"context"
	"errors"
	"strings"

	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	accountRepo domain.AccountRepository
}

func NewAccountService(accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// Get, Debit and Credit are the ledger operations the orchestrator reaches
// through its AccountClient. The repository enforces atomicity and the
// non-negative balance invariant per account.

func (s *AccountService) Get(ctx context.Context, accountID string) (domain.Account, error) {
	return s.accountRepo.Get(ctx, accountID)
}

func (s *AccountService) Debit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error) {
	return s.accountRepo.Debit(ctx, accountID, amount)
}

func (s *AccountService) Credit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error) {
	return s.accountRepo.Credit(ctx, accountID, amount)
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	balance := decimal.Zero
	if req.InitialBalance != nil {
		balance = *req.InitialBalance
	}

	account := domain.Account{
		OwnerEmail: strings.ToLower(strings.TrimSpace(req.OwnerEmail)),
		Balance:    balance,
	}

	created, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, commons.ErrDuplicateKey) {
			return commons.ErrorResponse[models.AccountResponse]("validation failed", "ownerEmail already has an account"), err
		}
		logger.Error("account service create account repository failed", err, logger.Fields{
			"ownerEmail": account.OwnerEmail,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	logger.Info("account service create account success", logger.Fields{
		"accountId":  created.ID,
		"ownerEmail": created.OwnerEmail,
	})

	return commons.SuccessResponse("account created successfully", mapAccountToResponse(created)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		err := errors.New("accountId is required")
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		logger.Error("account service get account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to fetch account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", mapAccountToResponse(account)), nil
}

func (s *AccountService) DebitAccount(ctx context.Context, req models.BalanceMutationRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service debit request", logger.Fields{
		"accountId": req.AccountID,
		"amount":    req.Amount,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.Debit(ctx, strings.TrimSpace(req.AccountID), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, commons.ErrRecordNotFound):
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		case errors.Is(err, commons.ErrInsufficientBalance):
			return commons.ErrorResponse[models.AccountResponse]("Insufficient balance", err.Error()), err
		default:
			logger.Error("account service debit failed", err, logger.Fields{
				"accountId": req.AccountID,
			})
			return commons.ErrorResponse[models.AccountResponse]("failed to debit account", "Unable to debit account right now"), err
		}
	}

	logger.Info("account service debit success", logger.Fields{
		"accountId": account.ID,
		"balance":   account.Balance,
	})

	return commons.SuccessResponse("account debited successfully", mapAccountToResponse(account)), nil
}

func (s *AccountService) CreditAccount(ctx context.Context, req models.BalanceMutationRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service credit request", logger.Fields{
		"accountId": req.AccountID,
		"amount":    req.Amount,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.Credit(ctx, strings.TrimSpace(req.AccountID), req.Amount)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		logger.Error("account service credit failed", err, logger.Fields{
			"accountId": req.AccountID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to credit account", "Unable to credit account right now"), err
	}

	logger.Info("account service credit success", logger.Fields{
		"accountId": account.ID,
		"balance":   account.Balance,
	})

	return commons.SuccessResponse("account credited successfully", mapAccountToResponse(account)), nil
}

func mapAccountToResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:         account.ID,
		OwnerEmail: account.OwnerEmail,
		Balance:    account.Balance,
	}
}
