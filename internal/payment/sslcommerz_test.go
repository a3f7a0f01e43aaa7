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

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

func testOrder() *domain.Order {
	return &domain.Order{
		OrderID: "order-1",
		UserID:  "user-1",
		Amount:  980,
		TranID:  "tran-1",
		Address: domain.Address{
			RecipientName: "Rahim Uddin",
			Phone:         "+8801712345678",
			AddressLine1:  "House 7, Road 3",
			District:      "Dhaka",
		},
	}
}

func TestInitiateSessionReturnsGatewayURL(t *testing.T) {
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":         "SUCCESS",
			"GatewayPageURL": "https://gateway.example/pay/abc",
		})
	}))
	defer srv.Close()

	client := NewSSLCommerzClient("store", "secret", srv.URL, zap.NewNop())
	url, err := client.InitiateSession(context.Background(), testOrder(), CallbackURLs{
		Success: "https://shop.example/api/order/ssl/success",
		Fail:    "https://shop.example/api/order/ssl/fail",
		Cancel:  "https://shop.example/api/order/ssl/cancel",
		IPN:     "https://shop.example/api/order/ssl/ipn",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example/pay/abc", url)

	// pass-through values and identity of the session
	assert.Equal(t, "order-1", gotForm["value_a"])
	assert.Equal(t, "user-1", gotForm["value_b"])
	assert.Equal(t, "tran-1", gotForm["tran_id"])
	assert.Equal(t, "980.00", gotForm["total_amount"])
	assert.Equal(t, "BDT", gotForm["currency"])
	assert.Equal(t, "https://shop.example/api/order/ssl/success", gotForm["success_url"])
	assert.Equal(t, "+8801712345678", gotForm["cus_phone"])
}

func TestInitiateSessionNoGatewayURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":       "FAILED",
			"failedreason": "store credentials invalid",
		})
	}))
	defer srv.Close()

	client := NewSSLCommerzClient("store", "secret", srv.URL, zap.NewNop())
	_, err := client.InitiateSession(context.Background(), testOrder(), CallbackURLs{})
	require.ErrorIs(t, err, ErrNoGatewayURL)
}
