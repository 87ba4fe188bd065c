package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rbeltranc/stitchmarket-backend/pkg/config"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1024

var (
	errBaseURLRequired = errors.New("gateway base url is required")
	errStoreIDRequired = errors.New("gateway store id is required")
	errSecretRequired  = errors.New("gateway signing secret is required")
)

// Client wraps the hosted payment provider API used for checkout intents.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	storeID       string
	signingSecret string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the payment gateway client from configuration.
func NewClient(cfg config.GatewayConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	storeID := strings.TrimSpace(cfg.StoreID)
	if storeID == "" {
		return nil, errStoreIDRequired
	}
	secret := strings.TrimSpace(cfg.SigningSecret)
	if secret == "" {
		return nil, errSecretRequired
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       baseURL,
		storeID:       storeID,
		signingSecret: secret,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// SigningSecret exposes the shared secret used to validate webhook signatures.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.signingSecret
}

// CreateIntentRequest describes the payload sent to the provider.
type CreateIntentRequest struct {
	OrderNumber string `json:"order_number"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// PaymentIntent is the normalized intent returned by the provider.
type PaymentIntent struct {
	ID          string
	CheckoutURL string
	Status      string
}

// CreateIntent registers a payable intent for the given order with the provider.
func (c *Client) CreateIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment gateway client not configured")
	}
	if strings.TrimSpace(req.OrderNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if req.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	payload, err := json.Marshal(struct {
		CreateIntentRequest
		StoreID string `json:"store_id"`
	}{CreateIntentRequest: req, StoreID: c.storeID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal intent request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("intents"), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build intent request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Store-Id", c.storeID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute intent request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "intent request failed")
	}

	var apiResp struct {
		ID          string `json:"id"`
		CheckoutURL string `json:"checkout_url"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode intent response")
	}
	if apiResp.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "provider returned intent without id")
	}

	return &PaymentIntent{
		ID:          apiResp.ID,
		CheckoutURL: apiResp.CheckoutURL,
		Status:      apiResp.Status,
	}, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
