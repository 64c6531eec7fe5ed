// Package gateway is a thin HTTP client for the external payment gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Config carries the gateway credentials and endpoints.
type Config struct {
	BaseURL     string
	APIKey      string
	MerchantID  string
	CallbackURL string
	TestMode    bool
}

// Session is a created gateway payment session. The client is redirected to
// PaymentURL; the gateway calls back with TransactionID.
type Session struct {
	TransactionID string `json:"transactionId"`
	PaymentURL    string `json:"paymentUrl"`
}

// Client talks to the gateway's REST API.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type createPaymentRequest struct {
	MerchantID  string          `json:"merchantId"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	OrderRef    string          `json:"orderRef"`
	CallbackURL string          `json:"callbackUrl"`
	TestMode    bool            `json:"testMode,omitempty"`
}

// CreatePayment opens a payment session for the given order amount.
func (c *Client) CreatePayment(ctx context.Context, orderID string, amount decimal.Decimal, currency string) (*Session, error) {
	body, err := json.Marshal(createPaymentRequest{
		MerchantID:  c.cfg.MerchantID,
		Amount:      amount,
		Currency:    currency,
		OrderRef:    orderID,
		CallbackURL: c.cfg.CallbackURL,
		TestMode:    c.cfg.TestMode,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/payments/create", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "gateway request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// Bounded read keeps a misbehaving gateway from flooding the log.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Errorf("gateway responded %d: %s", resp.StatusCode, msg)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	if session.TransactionID == "" {
		return nil, errors.New("gateway returned no transaction id")
	}
	return &session, nil
}
