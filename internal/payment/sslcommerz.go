package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

// ErrNoGatewayURL means the provider accepted the request but returned
// no redirect URL; the caller must roll back the pending order.
var ErrNoGatewayURL = errors.New("sslcommerz: no gateway page URL in response")

// SSLCommerzClient drives the hosted-redirect checkout: one outbound
// session-init call, then the provider browses the customer back
// through the success/fail/cancel callback URLs.
type SSLCommerzClient struct {
	storeID       string
	storePassword string
	baseURL       string
	httpClient    *http.Client
	logger        *zap.Logger
}

func NewSSLCommerzClient(storeID, storePassword, baseURL string, logger *zap.Logger) *SSLCommerzClient {
	return &SSLCommerzClient{
		storeID:       storeID,
		storePassword: storePassword,
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: 20 * time.Second},
		logger:        logger,
	}
}

// CallbackURLs are embedded in the session so the provider can return
// the customer (and the pass-through order id) to us.
type CallbackURLs struct {
	Success string
	Fail    string
	Cancel  string
	IPN     string
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
	SessionKey     string `json:"sessionkey"`
}

// InitiateSession creates a hosted-checkout session for the order and
// returns the redirect URL. The order id and user id travel as
// value_a/value_b opaque pass-through fields and come back on every
// callback.
func (c *SSLCommerzClient) InitiateSession(ctx context.Context, order *domain.Order, cb CallbackURLs) (string, error) {
	form := url.Values{}
	form.Set("store_id", c.storeID)
	form.Set("store_passwd", c.storePassword)
	form.Set("total_amount", fmt.Sprintf("%.2f", order.Amount))
	form.Set("currency", "BDT")
	form.Set("tran_id", order.TranID)

	form.Set("success_url", cb.Success)
	form.Set("fail_url", cb.Fail)
	form.Set("cancel_url", cb.Cancel)
	form.Set("ipn_url", cb.IPN)

	form.Set("shipping_method", "Courier")
	form.Set("product_name", "Cart Products")
	form.Set("product_category", "Ecommerce")
	form.Set("product_profile", "general")

	addr := order.Address
	form.Set("cus_name", addr.RecipientName)
	form.Set("cus_email", "customer@example.com")
	form.Set("cus_add1", addr.AddressLine1)
	form.Set("cus_city", addr.District)
	form.Set("cus_postcode", orDefault(addr.PostalCode, "1000"))
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", addr.Phone)

	form.Set("ship_name", addr.RecipientName)
	form.Set("ship_add1", addr.AddressLine1)
	form.Set("ship_city", addr.District)
	form.Set("ship_postcode", orDefault(addr.PostalCode, "1000"))
	form.Set("ship_country", "Bangladesh")

	// Echoed back verbatim on callbacks.
	form.Set("value_a", order.OrderID)
	form.Set("value_b", order.UserID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/gwprocess/v4/api.php", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sslcommerz: session init: %w", err)
	}
	defer resp.Body.Close()

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("sslcommerz: decode session response: %w", err)
	}

	if session.GatewayPageURL == "" {
		c.logger.Warn("SSLCommerz session init returned no gateway URL",
			zap.String("order_id", order.OrderID),
			zap.String("status", session.Status),
			zap.String("reason", session.FailedReason))
		return "", ErrNoGatewayURL
	}

	return session.GatewayPageURL, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
