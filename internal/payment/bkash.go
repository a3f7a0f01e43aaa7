package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Wallet-gateway success code: the execute call returning this status
// is the only trigger for marking an order paid.
const BkashStatusSuccess = "0000"

type BkashConfig struct {
	BaseURL   string
	Username  string
	Password  string
	AppKey    string
	AppSecret string
}

// BkashClient implements the tokenized checkout flow: grant a bearer
// token, create a payment session for the computed amount, then
// execute against the payment reference the provider redirects back
// with.
type BkashClient struct {
	cfg        BkashConfig
	tokens     *TokenCache
	httpClient *http.Client
	logger     *zap.Logger
}

func NewBkashClient(cfg BkashConfig, logger *zap.Logger) *BkashClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	c := &BkashClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
	c.tokens = NewTokenCache(c, nil)
	return c
}

type grantResponse struct {
	IDToken   string `json:"id_token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// GrantToken performs the credential exchange. Called through the
// token cache, not directly.
func (c *BkashClient) GrantToken(ctx context.Context) (string, time.Duration, error) {
	body, _ := json.Marshal(map[string]string{
		"app_key":    c.cfg.AppKey,
		"app_secret": c.cfg.AppSecret,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/tokenized/checkout/token/grant", bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("username", c.cfg.Username)
	req.Header.Set("password", c.cfg.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("bkash: token grant: %w", err)
	}
	defer resp.Body.Close()

	var grant grantResponse
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return "", 0, fmt.Errorf("bkash: decode grant response: %w", err)
	}
	if grant.IDToken == "" {
		return "", 0, fmt.Errorf("bkash: token grant rejected (http %d)", resp.StatusCode)
	}

	return grant.IDToken, time.Duration(grant.ExpiresIn) * time.Second, nil
}

type CreatePaymentResponse struct {
	PaymentID             string `json:"paymentID"`
	BkashURL              string `json:"bkashURL"`
	StatusCode            string `json:"statusCode"`
	StatusMessage         string `json:"statusMessage"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Intent                string `json:"intent"`
	MerchantInvoiceNumber string `json:"merchantInvoiceNumber"`
}

// CreatePayment opens a payment session for the given amount. The
// callback URL embeds the order id so the redirect-back always has an
// order to settle against.
func (c *BkashClient) CreatePayment(ctx context.Context, amount float64, invoiceID, callbackURL string) (*CreatePaymentResponse, error) {
	payload := map[string]string{
		"mode":                  "0011",
		"payerReference":        invoiceID,
		"callbackURL":           callbackURL,
		"amount":                fmt.Sprintf("%.2f", amount),
		"currency":              "BDT",
		"intent":                "sale",
		"merchantInvoiceNumber": invoiceID,
	}

	var out CreatePaymentResponse
	if err := c.post(ctx, "/tokenized/checkout/create", payload, &out); err != nil {
		return nil, err
	}
	if out.PaymentID == "" || out.BkashURL == "" {
		return nil, fmt.Errorf("bkash: create payment rejected: %s %s", out.StatusCode, out.StatusMessage)
	}
	return &out, nil
}

type ExecutePaymentResponse struct {
	PaymentID     string `json:"paymentID"`
	TrxID         string `json:"trxID"`
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

// ExecutePayment confirms a session the customer approved on the
// provider side. Callers must treat any status other than
// BkashStatusSuccess as failure.
func (c *BkashClient) ExecutePayment(ctx context.Context, paymentID string) (*ExecutePaymentResponse, error) {
	payload := map[string]string{"paymentID": paymentID}

	var out ExecutePaymentResponse
	if err := c.post(ctx, "/tokenized/checkout/execute", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BkashClient) post(ctx context.Context, path string, payload any, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("X-APP-Key", c.cfg.AppKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bkash: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("bkash: decode %s response: %w", path, err)
	}
	return nil
}
