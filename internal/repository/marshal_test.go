package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

// The update expressions address stored attributes by name, so the
// names MarshalMap produces must be exactly the ones UpdateOrderFields,
// SetTranID, UpdateAddress and ResetCart write. attributevalue only
// honours dynamodbav tags; a drift here silently forks every updated
// field into a second attribute.

func TestOrderStoredAttributeNamesMatchUpdateKeys(t *testing.T) {
	order := domain.Order{
		OrderID: "o1",
		UserID:  "u1",
		Items: []domain.LineItem{{
			ProductID: "P1", Name: "Panjabi", Size: "M", Quantity: 2,
			UnitBasePrice: 500, UnitDiscountPct: 10, UnitFinalPrice: 450,
			LineSubtotal: 900,
		}},
		Address: domain.Address{
			RecipientName: "Rahim Uddin",
			Phone:         "+8801712345678",
			AddressLine1:  "House 7, Road 3",
			District:      "Dhaka",
		},
		Amount:        980,
		PaymentMethod: domain.PaymentMethodSSLCommerz,
		Status:        domain.OrderStatusPlaced,
		TranID:        "tran-1",
		Delivery:      domain.DeliveryMeta{Fee: 80, Label: "Inside Dhaka", Source: "address"},
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	av, err := attributevalue.MarshalMap(order)
	require.NoError(t, err)

	// every key the service layer updates through the repository
	for _, key := range []string{
		"payment", "status", "tran_id", "address", "updated_at",
		"order_id", "user_id", "items", "amount", "payment_method",
		"delivery", "created_at",
	} {
		assert.Contains(t, av, key)
	}

	// nested address attributes share the same contract
	addr, ok := av["address"].(*types.AttributeValueMemberM)
	require.True(t, ok)
	assert.Contains(t, addr.Value, "phone")
	assert.Contains(t, addr.Value, "district")

	// and a stored order round-trips into the same fields
	var got domain.Order
	require.NoError(t, attributevalue.UnmarshalMap(av, &got))
	assert.Equal(t, order.TranID, got.TranID)
	assert.Equal(t, order.Status, got.Status)
	assert.Equal(t, order.Payment, got.Payment)
	assert.Equal(t, order.Address.Phone, got.Address.Phone)
}

func TestUserStoredAttributeNamesMatchUpdateKeys(t *testing.T) {
	user := domain.User{
		UserID:       "u1",
		Phone:        "+8801712345678",
		Name:         "Rahim Uddin",
		PasswordHash: "bcrypt-hash",
		CartData:     map[string]float64{"P1": 2},
		CreatedVia:   domain.CreatedViaCheckout,
		CreatedAt:    time.Now().UTC(),
	}

	av, err := attributevalue.MarshalMap(user)
	require.NoError(t, err)

	for _, key := range []string{"user_id", "phone", "cart_data", "password_hash", "created_via"} {
		assert.Contains(t, av, key)
	}

	var got domain.User
	require.NoError(t, attributevalue.UnmarshalMap(av, &got))
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.Equal(t, user.CartData, got.CartData)

	// the hash persists but never leaves through API JSON
	body, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "bcrypt-hash")
}
