package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

func TestProgressFor(t *testing.T) {
	tests := []struct {
		status domain.OrderStatus
		pct    int
		step   string
	}{
		{domain.OrderStatusPlaced, 10, "Order Placed"},
		{domain.OrderStatusPaid, 25, "Paid"},
		{domain.OrderStatusProcessing, 45, "Processing"},
		{domain.OrderStatusShipped, 70, "Shipped"},
		{domain.OrderStatusOutForDelivery, 90, "Out for Delivery"},
		{domain.OrderStatusDelivered, 100, "Delivered"},
		{domain.OrderStatusPaymentFailed, 0, "Payment Failed"},
		{domain.OrderStatusPaymentCancelled, 0, "Payment Cancelled"},
		// operator free-form strings still match by substring
		{"order SHIPPED from warehouse", 70, "Shipped"},
		// unknown non-failure status falls back to the first step
		{"Awaiting stock", 10, "Order Placed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			pct, step := progressFor(tt.status)
			assert.Equal(t, tt.pct, pct)
			assert.Equal(t, tt.step, step)
		})
	}
}

func TestProjectETAWindows(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := NewTrackingProjector(func() time.Time { return now })

	base := &domain.Order{
		OrderID:  "o1",
		Status:   domain.OrderStatusPlaced,
		Delivery: domain.DeliveryMeta{Label: "Inside Dhaka"},
	}

	t.Run("inside metro window", func(t *testing.T) {
		view := p.Project(base)
		assert.Equal(t, now.AddDate(0, 0, 2), view.ETAFrom)
		assert.Equal(t, now.AddDate(0, 0, 4), view.ETATo)
	})

	t.Run("outside window", func(t *testing.T) {
		o := *base
		o.Delivery.Label = "Outside Dhaka"
		view := p.Project(&o)
		assert.Equal(t, now.AddDate(0, 0, 4), view.ETAFrom)
		assert.Equal(t, now.AddDate(0, 0, 7), view.ETATo)
	})

	t.Run("shipped compresses window", func(t *testing.T) {
		o := *base
		o.Status = domain.OrderStatusOutForDelivery
		view := p.Project(&o)
		assert.Equal(t, now.AddDate(0, 0, 1), view.ETAFrom)
		assert.Equal(t, now.AddDate(0, 0, 2), view.ETATo)
	})

	t.Run("unknown label uses widest window", func(t *testing.T) {
		o := *base
		o.Delivery.Label = "Weird"
		view := p.Project(&o)
		assert.Equal(t, now.AddDate(0, 0, 4), view.ETAFrom)
		assert.Equal(t, now.AddDate(0, 0, 7), view.ETATo)
	})
}

func TestProjectSanitizes(t *testing.T) {
	p := NewTrackingProjector(nil)
	order := &domain.Order{
		OrderID:       "o1",
		UserID:        "u1",
		TranID:        "secret-tran",
		Status:        domain.OrderStatusPaid,
		Amount:        980,
		Payment:       true,
		PaymentMethod: domain.PaymentMethodSSLCommerz,
		Delivery:      domain.DeliveryMeta{Fee: 80, Label: "Inside Dhaka"},
		Items: []domain.LineItem{{
			ProductID: "P1", Name: "Panjabi", Size: "M", Quantity: 2,
			UnitBasePrice: 500, LineSubtotal: 900,
		}},
	}

	view := p.Project(order)
	assert.Equal(t, "o1", view.OrderID)
	assert.Equal(t, 25, view.ProgressPct)
	if assert.Len(t, view.Items, 1) {
		assert.Equal(t, "Panjabi", view.Items[0].Name)
		assert.Equal(t, 2, view.Items[0].Quantity)
	}
}
