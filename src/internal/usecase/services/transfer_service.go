package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/logger"
	"github.com/finpay/payments/src/internal/metrics"
	"github.com/finpay/payments/src/internal/usecase/clients"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

const (
	successNotification = "Transaction Completed Successfully"
	failureNotification = "Transaction failed. Please try again."
)

// Dispatcher runs fire-and-forget side effects (notifications, event
// publishing) off the critical path so their latency or failure can never
// influence transaction status.
type Dispatcher func(fn func())

func GoDispatcher(fn func()) { go fn() }

// SyncDispatcher runs side effects inline; used by tests that need
// deterministic ordering.
func SyncDispatcher(fn func()) { fn() }

// TransferService owns the transaction state machine, the idempotency index
// and the call sequencing across the ledger, fraud, notification and event
// collaborators. It holds no state between calls; everything durable lives in
// the transaction store.
type TransferService struct {
	transactionRepo domain.TransactionRepository
	accounts        clients.AccountClient
	fraud           clients.FraudClient
	notifications   clients.NotificationClient
	events          clients.EventPublisher
	callTimeout     time.Duration
	dispatch        Dispatcher
	group           singleflight.Group
}

func NewTransferService(
	transactionRepo domain.TransactionRepository,
	accounts clients.AccountClient,
	fraud clients.FraudClient,
	notifications clients.NotificationClient,
	events clients.EventPublisher,
	callTimeout time.Duration,
	dispatch Dispatcher,
) *TransferService {
	if dispatch == nil {
		dispatch = GoDispatcher
	}
	return &TransferService{
		transactionRepo: transactionRepo,
		accounts:        accounts,
		fraud:           fraud,
		notifications:   notifications,
		events:          events,
		callTimeout:     callTimeout,
		dispatch:        dispatch,
	}
}

// Transfer processes a money transfer with idempotency support. However many
// times a client retries the same key, at most one financial effect is
// produced:
//
//   - existing COMPLETED or PENDING transaction: returned as-is, no remote
//     calls repeated
//   - existing FAILED transaction: reset to PENDING and re-enters the
//     pipeline with the persisted accounts/amount (same id, same key)
//   - unseen key: a PENDING transaction row is persisted before any remote
//     call is made
//
// Business failures (fraud, insufficient balance, downstream unavailability)
// return a FAILED transaction representation with a nil error; only malformed
// input or transaction-store failure surface as errors.
func (s *TransferService) Transfer(ctx context.Context, idempotencyKey string, req models.TransferRequest) (commons.Response[models.TransactionResponse], error) {
	idempotencyKey = strings.TrimSpace(idempotencyKey)

	logger.Info("transfer service request", logger.Fields{
		"idempotencyKey": idempotencyKey,
		"payload":        logger.SanitizePayload(req),
	})

	if idempotencyKey == "" {
		err := errors.New("Idempotency-Key is required")
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}

	// Concurrent calls bearing the same key collapse onto one execution
	// in-process; the unique index on idempotency_key remains the
	// authority across processes.
	result, err, _ := s.group.Do(idempotencyKey, func() (any, error) {
		response, err := s.transfer(ctx, idempotencyKey, req)
		if err != nil {
			return response, err
		}
		return response, nil
	})

	response, ok := result.(commons.Response[models.TransactionResponse])
	if !ok {
		response = commons.ErrorResponse[models.TransactionResponse]("failed to process transfer", "Unable to process transfer right now")
	}
	return response, err
}

func (s *TransferService) transfer(ctx context.Context, idempotencyKey string, req models.TransferRequest) (commons.Response[models.TransactionResponse], error) {
	existing, err := s.transactionRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	switch {
	case err == nil:
		return s.resume(ctx, existing)

	case errors.Is(err, commons.ErrRecordNotFound):
		created, err := s.transactionRepo.Create(ctx, domain.Transaction{
			ID:             uuid.NewString(),
			FromAccountID:  strings.TrimSpace(req.FromAccountID),
			ToAccountID:    strings.TrimSpace(req.ToAccountID),
			Amount:         req.Amount,
			Status:         domain.TransactionStatusPending,
			IdempotencyKey: idempotencyKey,
		})
		if errors.Is(err, commons.ErrDuplicateKey) {
			// Lost the first-writer race: fall back to the
			// lookup-and-return path rather than erroring.
			logger.Info("transfer service idempotency race lost", logger.Fields{
				"idempotencyKey": idempotencyKey,
			})
			winner, lookupErr := s.transactionRepo.GetByIdempotencyKey(ctx, idempotencyKey)
			if lookupErr != nil {
				return commons.ErrorResponse[models.TransactionResponse]("failed to process transfer", "Unable to process transfer right now"), lookupErr
			}
			return s.resume(ctx, winner)
		}
		if err != nil {
			logger.Error("transfer service create transaction failed", err, logger.Fields{
				"idempotencyKey": idempotencyKey,
			})
			return commons.ErrorResponse[models.TransactionResponse]("failed to process transfer", "Unable to process transfer right now"), err
		}

		logger.Info("transfer service created new transaction", logger.Fields{
			"transactionId":  created.ID,
			"idempotencyKey": idempotencyKey,
		})
		return s.process(ctx, created), nil

	default:
		logger.Error("transfer service idempotency lookup failed", err, logger.Fields{
			"idempotencyKey": idempotencyKey,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}
}

// resume handles a transaction already recorded for the idempotency key.
func (s *TransferService) resume(ctx context.Context, tx domain.Transaction) (commons.Response[models.TransactionResponse], error) {
	switch tx.Status {
	case domain.TransactionStatusCompleted, domain.TransactionStatusPending:
		// Idempotent fast path. PENDING may still be mid-flight in
		// another process; it is returned unchanged, trading strict
		// freshness for simplicity.
		metrics.TransferReplaysTotal.Inc()
		logger.Info("transfer service returning existing transaction", logger.Fields{
			"transactionId":  tx.ID,
			"idempotencyKey": tx.IdempotencyKey,
			"status":         tx.Status,
		})
		return commons.SuccessResponse("transfer already processed", mapTransactionToResponse(tx)), nil

	case domain.TransactionStatusFailed:
		logger.Warn("transfer service retrying failed transaction", logger.Fields{
			"transactionId":  tx.ID,
			"idempotencyKey": tx.IdempotencyKey,
		})
		if err := tx.TransitionTo(domain.TransactionStatusPending); err != nil {
			return commons.ErrorResponse[models.TransactionResponse]("failed to process transfer", err.Error()), err
		}
		updated, err := s.transactionRepo.Update(ctx, tx)
		if err != nil {
			return commons.ErrorResponse[models.TransactionResponse]("failed to process transfer", "Unable to process transfer right now"), err
		}
		return s.process(ctx, updated), nil

	default:
		err := errors.New("unknown transaction status " + string(tx.Status))
		return commons.ErrorResponse[models.TransactionResponse]("failed to process transfer", err.Error()), err
	}
}

// process runs the pipeline against a PENDING transaction: fraud check, owner
// lookup, debit, credit, then notification and event publish. The final
// status is persisted unconditionally before returning.
//
// Known gap: a debit that succeeds
// followed by a credit that fails leaves the source account debited with no
// recorded compensation; a retry re-attempts the debit from the reduced
// balance. See DESIGN.md.
func (s *TransferService) process(ctx context.Context, tx domain.Transaction) commons.Response[models.TransactionResponse] {
	timer := prometheus.NewTimer(metrics.PipelineDuration)
	defer timer.ObserveDuration()

	check, err := s.checkFraud(ctx, tx)
	if err != nil {
		logger.Error("transfer service fraud check unavailable", err, logger.Fields{
			"transactionId": tx.ID,
		})
		tx = s.settle(ctx, tx, domain.TransactionStatusFailed)
		return commons.FailureResponse("transfer failed", mapTransactionToResponse(tx), failureReason(err))
	}
	if check.Fraudulent {
		tx = s.settle(ctx, tx, domain.TransactionStatusFailed)
		return commons.FailureResponse("transaction flagged as fraudulent", mapTransactionToResponse(tx), check.Reason)
	}

	// Owner email is only needed for notification addressing.
	account, err := s.getAccount(ctx, tx.FromAccountID)
	if err != nil {
		logger.Error("transfer service source account lookup failed", err, logger.Fields{
			"transactionId": tx.ID,
			"accountId":     tx.FromAccountID,
		})
		tx = s.settle(ctx, tx, domain.TransactionStatusFailed)
		return commons.FailureResponse("transfer failed", mapTransactionToResponse(tx), failureReason(err))
	}

	if err := s.debit(ctx, tx); err != nil {
		logger.Error("transfer service debit failed", err, logger.Fields{
			"transactionId": tx.ID,
			"accountId":     tx.FromAccountID,
		})
		tx = s.settle(ctx, tx, domain.TransactionStatusFailed)
		s.notify(account.OwnerEmail, failureNotification)
		return commons.FailureResponse("transfer failed", mapTransactionToResponse(tx), failureReason(err))
	}

	if err := s.credit(ctx, tx); err != nil {
		// No compensating debit reversal happens here.
		logger.Error("transfer service credit failed after successful debit", err, logger.Fields{
			"transactionId": tx.ID,
			"accountId":     tx.ToAccountID,
		})
		tx = s.settle(ctx, tx, domain.TransactionStatusFailed)
		s.notify(account.OwnerEmail, failureNotification)
		return commons.FailureResponse("transfer failed", mapTransactionToResponse(tx), failureReason(err))
	}

	tx = s.settle(ctx, tx, domain.TransactionStatusCompleted)
	s.notify(account.OwnerEmail, successNotification)
	s.publish(domain.TransactionCreatedEvent{
		ID:         tx.ID,
		Amount:     tx.Amount,
		OwnerEmail: account.OwnerEmail,
	})

	logger.Info("transfer service transaction completed", logger.Fields{
		"transactionId":  tx.ID,
		"idempotencyKey": tx.IdempotencyKey,
	})
	return commons.SuccessResponse("transfer completed successfully", mapTransactionToResponse(tx))
}

func (s *TransferService) GetStatus(ctx context.Context, id string) (commons.Response[models.TransactionResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		err := errors.New("transaction id is required")
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}

	tx, err := s.transactionRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("Transaction not found"), err
		}
		logger.Error("transfer service get status failed", err, logger.Fields{
			"transactionId": id,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to fetch transaction", "Unable to fetch transaction right now"), err
	}

	return commons.SuccessResponse("transaction fetched successfully", mapTransactionToResponse(tx)), nil
}

func (s *TransferService) GetTransactionsByAccount(ctx context.Context, accountID string) (commons.Response[[]models.TransactionResponse], error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		err := errors.New("accountId is required")
		return commons.ErrorResponse[[]models.TransactionResponse]("validation failed", err.Error()), err
	}

	transactions, err := s.transactionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		logger.Error("transfer service list by account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[[]models.TransactionResponse]("failed to fetch transactions", "Unable to fetch transactions right now"), err
	}

	responses := make([]models.TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, mapTransactionToResponse(tx))
	}
	return commons.SuccessResponse("transactions fetched successfully", responses), nil
}

// settle moves the transaction to its final status and persists it. The
// record is persisted even when the transition or update fails, so a client
// retry with the same key always finds the latest durable state.
func (s *TransferService) settle(ctx context.Context, tx domain.Transaction, status domain.TransactionStatus) domain.Transaction {
	if err := tx.TransitionTo(status); err != nil {
		logger.Error("transfer service invalid status transition", err, logger.Fields{
			"transactionId": tx.ID,
			"from":          tx.Status,
			"to":            status,
		})
		return tx
	}

	updated, err := s.transactionRepo.Update(ctx, tx)
	if err != nil {
		logger.Error("transfer service persist final status failed", err, logger.Fields{
			"transactionId": tx.ID,
			"status":        status,
		})
		metrics.TransfersTotal.WithLabelValues(string(status)).Inc()
		return tx
	}

	metrics.TransfersTotal.WithLabelValues(string(status)).Inc()
	return updated
}

func (s *TransferService) checkFraud(ctx context.Context, tx domain.Transaction) (domain.FraudCheck, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.fraud.CheckFraud(callCtx, tx.ID, tx.Amount)
}

func (s *TransferService) getAccount(ctx context.Context, accountID string) (domain.Account, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.accounts.GetAccount(callCtx, accountID)
}

func (s *TransferService) debit(ctx context.Context, tx domain.Transaction) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	logger.Info("transfer service debiting account", logger.Fields{
		"transactionId": tx.ID,
		"accountId":     tx.FromAccountID,
		"amount":        tx.Amount,
	})
	_, err := s.accounts.Debit(callCtx, tx.FromAccountID, tx.Amount)
	return err
}

func (s *TransferService) credit(ctx context.Context, tx domain.Transaction) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	logger.Info("transfer service crediting account", logger.Fields{
		"transactionId": tx.ID,
		"accountId":     tx.ToAccountID,
		"amount":        tx.Amount,
	})
	_, err := s.accounts.Credit(callCtx, tx.ToAccountID, tx.Amount)
	return err
}

func (s *TransferService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

func (s *TransferService) notify(ownerEmail, message string) {
	if strings.TrimSpace(ownerEmail) == "" {
		return
	}
	s.dispatch(func() {
		// Detached from the request context: the caller may be gone
		// before delivery finishes.
		ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout)
		defer cancel()
		if err := s.notifications.Notify(ctx, ownerEmail, message, domain.NotificationChannelEmail); err != nil {
			logger.Error("transfer service notification dispatch failed", err, logger.Fields{
				"recipient": ownerEmail,
			})
		}
	})
}

func (s *TransferService) publish(event domain.TransactionCreatedEvent) {
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout)
		defer cancel()
		if err := s.events.PublishTransactionCreated(ctx, event); err != nil {
			logger.Error("transfer service event publish failed", err, logger.Fields{
				"transactionId": event.ID,
			})
		}
	})
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, commons.ErrInsufficientBalance):
		return "Insufficient balance"
	case errors.Is(err, commons.ErrRecordNotFound):
		return "Account not found"
	case errors.Is(err, commons.ErrDownstreamUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return "Downstream service unavailable"
	default:
		return "Unable to process transfer right now"
	}
}

func mapTransactionToResponse(tx domain.Transaction) models.TransactionResponse {
	return models.TransactionResponse{
		ID:            tx.ID,
		FromAccountID: tx.FromAccountID,
		ToAccountID:   tx.ToAccountID,
		Amount:        tx.Amount,
		Status:        string(tx.Status),
	}
}
