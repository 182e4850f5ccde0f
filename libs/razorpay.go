package libs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Gateway errors. Timeouts and transport failures are reported as
// ErrProviderUnavailable so callers can distinguish "the provider said no"
// from "we never got an answer". A call that times out is treated as failed
// and is never retried here.
var (
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrGatewayRejected     = errors.New("payment gateway rejected the request")
)

// RazorpayClient talks to the Razorpay REST API with basic auth. Only the
// two calls the store needs are implemented: order creation (payment intent)
// and refunds.
type RazorpayClient struct {
	KeyID      string
	KeySecret  string
	BaseURL    string
	httpClient *http.Client
}

func NewRazorpayClient(keyID, keySecret, baseURL string) *RazorpayClient {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	return &RazorpayClient{
		KeyID:     keyID,
		KeySecret: keySecret,
		BaseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type gatewayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers a payment intent for the given amount in minor units
// and returns the gateway order id the client completes payment against.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}

	var order GatewayOrder
	if err := c.post(ctx, "/orders", payload, &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: empty order id", ErrGatewayRejected)
	}
	return &order, nil
}

type Refund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// Refund issues a full or partial refund against a captured payment.
func (c *RazorpayClient) Refund(ctx context.Context, paymentID string, amount int64, reason string) (*Refund, error) {
	payload := map[string]interface{}{
		"amount": amount,
		"speed":  "optimum",
		"notes": map[string]string{
			"reason": reason,
		},
	}

	var refund Refund
	path := fmt.Sprintf("/payments/%s/refund", paymentID)
	if err := c.post(ctx, path, payload, &refund); err != nil {
		return nil, err
	}
	if refund.ID == "" {
		return nil, fmt.Errorf("%w: empty refund id", ErrGatewayRejected)
	}
	return &refund, nil
}

func (c *RazorpayClient) post(ctx context.Context, path string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w: request timed out", ErrProviderUnavailable)
		}
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: gateway returned %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		var gwErr gatewayError
		if json.Unmarshal(body, &gwErr) == nil && gwErr.Error.Description != "" {
			return fmt.Errorf("%w: %s", ErrGatewayRejected, gwErr.Error.Description)
		}
		return fmt.Errorf("%w: gateway returned %d: %s", ErrGatewayRejected, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse gateway response: %w", err)
	}
	return nil
}
