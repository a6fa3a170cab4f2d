// Package client provides the transport implementations of the orchestrator's
// collaborator interfaces: in-process adapters over the local services, and
// HTTP clients for a deployment where the collaborators run as separate
// services.
package client

import (
	"context"

	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type LocalAccountClient struct {
	service *services.AccountService
}

func NewLocalAccountClient(service *services.AccountService) *LocalAccountClient {
	return &LocalAccountClient{service: service}
}

func (c *LocalAccountClient) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	return c.service.Get(ctx, accountID)
}

func (c *LocalAccountClient) Debit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error) {
	return c.service.Debit(ctx, accountID, amount)
}

func (c *LocalAccountClient) Credit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error) {
	return c.service.Credit(ctx, accountID, amount)
}

type LocalFraudClient struct {
	service *services.FraudService
}

func NewLocalFraudClient(service *services.FraudService) *LocalFraudClient {
	return &LocalFraudClient{service: service}
}

func (c *LocalFraudClient) CheckFraud(ctx context.Context, transactionID string, amount decimal.Decimal) (domain.FraudCheck, error) {
	return c.service.Check(ctx, transactionID, amount)
}

type LocalNotificationClient struct {
	service *services.NotificationService
}

func NewLocalNotificationClient(service *services.NotificationService) *LocalNotificationClient {
	return &LocalNotificationClient{service: service}
}

func (c *LocalNotificationClient) Notify(ctx context.Context, userID, message, channel string) error {
	c.service.Send(ctx, userID, message, channel)
	return nil
}
