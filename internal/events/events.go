package events

import (
	"time"

	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
)

const (
	TypeOrderCreated     = "order.created"
	TypePaymentConfirmed = "order.payment_confirmed"
	TypePaymentFailed    = "order.payment_failed"
)

// OrderEvent is published on every lifecycle transition so downstream
// consumers (analytics, fulfillment) see the same state the store does.
type OrderEvent struct {
	EventID       string            `json:"event_id"`
	Type          string            `json:"type"`
	OrderID       string            `json:"order_id"`
	UserID        string            `json:"user_id"`
	TotalAmount   float64           `json:"total_amount"`
	Items         []domain.LineItem `json:"items,omitempty"`
	PaymentMethod string            `json:"payment_method"`
	Status        string            `json:"status"`
	Reason        string            `json:"reason,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
	RequestID     string            `json:"request_id,omitempty"`
}

// CompensationEvent records a pending order deleted because payment
// initiation never produced a usable provider session.
type CompensationEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   string    `json:"order_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
