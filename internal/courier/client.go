package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client checks delivery feasibility/rates for a customer phone number
// against the courier partner's API. The provider response is passed
// through verbatim; the admin UI renders it as-is.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiToken string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (c *Client) RateCheck(ctx context.Context, phone string) (json.RawMessage, error) {
	body, _ := json.Marshal(map[string]string{"phone": phone})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/rate-check", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("courier: rate check: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("courier: read rate check response: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.logger.Warn("Courier rate check rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("phone", phone))
		return nil, fmt.Errorf("courier: rate check failed (http %d)", resp.StatusCode)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("courier: rate check returned non-JSON body")
	}
	return json.RawMessage(raw), nil
}
