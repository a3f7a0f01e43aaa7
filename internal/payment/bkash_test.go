package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func bkashTestServer(t *testing.T, execStatus string) (*httptest.Server, *int) {
	t.Helper()
	grantCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/tokenized/checkout/token/grant", func(w http.ResponseWriter, r *http.Request) {
		grantCalls++
		assert.Equal(t, "merchant", r.Header.Get("username"))
		assert.Equal(t, "pass", r.Header.Get("password"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id_token":   "bearer-token",
			"token_type": "Bearer",
			"expires_in": 3600,
		})
	})
	mux.HandleFunc("/tokenized/checkout/create", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bearer-token", r.Header.Get("Authorization"))
		assert.Equal(t, "app-key", r.Header.Get("X-APP-Key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "BDT", body["currency"])
		assert.Equal(t, "sale", body["intent"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"paymentID":  "pay-1",
			"bkashURL":   "https://bkash.example/checkout/pay-1",
			"statusCode": "0000",
		})
	})
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"paymentID":  "pay-1",
			"trxID":      "trx-1",
			"statusCode": execStatus,
		})
	})

	return httptest.NewServer(mux), &grantCalls
}

func newTestBkashClient(baseURL string) *BkashClient {
	return NewBkashClient(BkashConfig{
		BaseURL:   baseURL,
		Username:  "merchant",
		Password:  "pass",
		AppKey:    "app-key",
		AppSecret: "app-secret",
	}, zap.NewNop())
}

func TestBkashCreateAndExecute(t *testing.T) {
	srv, grantCalls := bkashTestServer(t, BkashStatusSuccess)
	defer srv.Close()

	client := newTestBkashClient(srv.URL)

	session, err := client.CreatePayment(context.Background(), 980, "order-1",
		"https://shop.example/api/order/bkash/callback?orderId=order-1")
	require.NoError(t, err)
	assert.Equal(t, "pay-1", session.PaymentID)
	assert.Equal(t, "https://bkash.example/checkout/pay-1", session.BkashURL)

	exec, err := client.ExecutePayment(context.Background(), session.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, BkashStatusSuccess, exec.StatusCode)

	// Same cached bearer token served both calls.
	assert.Equal(t, 1, *grantCalls)
}

func TestBkashExecuteNonSuccessStatus(t *testing.T) {
	srv, _ := bkashTestServer(t, "2023")
	defer srv.Close()

	client := newTestBkashClient(srv.URL)
	exec, err := client.ExecutePayment(context.Background(), "pay-1")
	require.NoError(t, err)
	assert.NotEqual(t, BkashStatusSuccess, exec.StatusCode)
}

func TestBkashCreatePaymentRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tokenized/checkout/token/grant", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/tokenized/checkout/create", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"statusCode":    "2054",
			"statusMessage": "invalid amount",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestBkashClient(srv.URL)
	_, err := client.CreatePayment(context.Background(), 0, "order-1", "https://cb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2054")
}

func TestBkashGrantRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tokenized/checkout/token/grant", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestBkashClient(srv.URL)
	_, err := client.CreatePayment(context.Background(), 980, "order-1", "https://cb")
	require.Error(t, err)
}
