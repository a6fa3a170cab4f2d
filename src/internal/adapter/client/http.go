package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/finpay/payments/src/internal/adapter/http/models"
	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/shopspring/decimal"
)

// ChannelCredentials authenticate service-to-service calls with the same
// basic-auth channel scheme the HTTP surface enforces.
type ChannelCredentials struct {
	ID  string
	Key string
}

type httpClient struct {
	baseURL     string
	client      *http.Client
	credentials ChannelCredentials
}

func (c *httpClient) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.baseURL, "/")+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.credentials.ID, c.credentials.Key)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", commons.ErrDownstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response body: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func statusToError(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return commons.ErrRecordNotFound
	case status == http.StatusUnprocessableEntity:
		return commons.ErrInsufficientBalance
	case status == http.StatusBadRequest:
		return commons.ErrValidation
	default:
		return commons.ErrDownstreamUnavailable
	}
}

type HTTPAccountClient struct {
	httpClient
}

func NewHTTPAccountClient(baseURL string, credentials ChannelCredentials, client *http.Client) *HTTPAccountClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPAccountClient{httpClient{baseURL: baseURL, client: client, credentials: credentials}}
}

func (c *HTTPAccountClient) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	var envelope commons.Response[models.AccountResponse]
	status, err := c.do(ctx, http.MethodGet, "/accounts/"+accountID, nil, &envelope)
	if err != nil {
		return domain.Account{}, err
	}
	if err := statusToError(status); err != nil {
		return domain.Account{}, err
	}
	return accountFromResponse(envelope.Data)
}

func (c *HTTPAccountClient) Debit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error) {
	return c.mutate(ctx, "/accounts/debit", accountID, amount)
}

func (c *HTTPAccountClient) Credit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error) {
	return c.mutate(ctx, "/accounts/credit", accountID, amount)
}

func (c *HTTPAccountClient) mutate(ctx context.Context, path, accountID string, amount decimal.Decimal) (domain.Account, error) {
	var envelope commons.Response[models.AccountResponse]
	status, err := c.do(ctx, http.MethodPost, path, models.BalanceMutationRequest{
		AccountID: accountID,
		Amount:    amount,
	}, &envelope)
	if err != nil {
		return domain.Account{}, err
	}
	if err := statusToError(status); err != nil {
		return domain.Account{}, err
	}
	return accountFromResponse(envelope.Data)
}

func accountFromResponse(data *models.AccountResponse) (domain.Account, error) {
	if data == nil {
		return domain.Account{}, fmt.Errorf("%w: empty account payload", commons.ErrDownstreamUnavailable)
	}
	return domain.Account{
		ID:         data.ID,
		OwnerEmail: data.OwnerEmail,
		Balance:    data.Balance,
	}, nil
}

type HTTPFraudClient struct {
	httpClient
}

func NewHTTPFraudClient(baseURL string, credentials ChannelCredentials, client *http.Client) *HTTPFraudClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFraudClient{httpClient{baseURL: baseURL, client: client, credentials: credentials}}
}

func (c *HTTPFraudClient) CheckFraud(ctx context.Context, transactionID string, amount decimal.Decimal) (domain.FraudCheck, error) {
	var envelope commons.Response[models.FraudCheckResponse]
	status, err := c.do(ctx, http.MethodPost, "/frauds/check", models.FraudCheckRequest{
		TransactionID: transactionID,
		Amount:        amount,
	}, &envelope)
	if err != nil {
		return domain.FraudCheck{}, err
	}
	if err := statusToError(status); err != nil {
		return domain.FraudCheck{}, err
	}
	if envelope.Data == nil {
		return domain.FraudCheck{}, fmt.Errorf("%w: empty fraud payload", commons.ErrDownstreamUnavailable)
	}
	return domain.FraudCheck{
		TransactionID: envelope.Data.TransactionID,
		Fraudulent:    envelope.Data.Fraudulent,
		Reason:        envelope.Data.Reason,
	}, nil
}

type HTTPNotificationClient struct {
	httpClient
}

func NewHTTPNotificationClient(baseURL string, credentials ChannelCredentials, client *http.Client) *HTTPNotificationClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPNotificationClient{httpClient{baseURL: baseURL, client: client, credentials: credentials}}
}

func (c *HTTPNotificationClient) Notify(ctx context.Context, userID, message, channel string) error {
	status, err := c.do(ctx, http.MethodPost, "/notifications", models.NotificationRequest{
		UserID:  userID,
		Message: message,
		Channel: channel,
	}, nil)
	if err != nil {
		return err
	}
	return statusToError(status)
}
