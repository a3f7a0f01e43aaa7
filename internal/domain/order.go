package domain

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "Order Placed"
	OrderStatusPaid           OrderStatus = "Paid"
	OrderStatusProcessing     OrderStatus = "Processing"
	OrderStatusShipped        OrderStatus = "Shipped"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"

	OrderStatusPaymentFailed    OrderStatus = "Payment Failed"
	OrderStatusPaymentCancelled OrderStatus = "Payment Cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCOD        PaymentMethod = "COD"
	PaymentMethodSSLCommerz PaymentMethod = "SSLCommerz"
	PaymentMethodBkash      PaymentMethod = "bKash"
)

// LineItem is a snapshot of one cart line taken at order creation.
// Product prices change over time; the order must stay reproducible,
// so none of these fields are ever recomputed after creation.
type LineItem struct {
	ProductID       string  `json:"product_id" dynamodbav:"product_id"`
	Name            string  `json:"name" dynamodbav:"name"`
	Size            string  `json:"size" dynamodbav:"size"`
	Quantity        int     `json:"quantity" dynamodbav:"quantity"`
	UnitBasePrice   float64 `json:"unit_base_price" dynamodbav:"unit_base_price"`
	UnitDiscountPct float64 `json:"unit_discount_pct" dynamodbav:"unit_discount_pct"`
	UnitFinalPrice  float64 `json:"unit_final_price" dynamodbav:"unit_final_price"`
	LineSubtotal    float64 `json:"line_subtotal" dynamodbav:"line_subtotal"`
	Surcharge       float64 `json:"surcharge" dynamodbav:"surcharge"`
}

// DeliveryMeta records how the delivery fee was decided. Source is
// "override" when an explicit area override was honoured, "address"
// when derived from the destination.
type DeliveryMeta struct {
	Fee    float64 `json:"fee" dynamodbav:"fee"`
	Label  string  `json:"label" dynamodbav:"label"`
	Source string  `json:"source" dynamodbav:"source"`
}

// The dynamodbav tags must stay in lockstep with the json ones: the
// repository's update expressions address attributes by these names.
type Order struct {
	OrderID       string        `json:"order_id" dynamodbav:"order_id"`
	UserID        string        `json:"user_id" dynamodbav:"user_id"`
	Items         []LineItem    `json:"items" dynamodbav:"items"`
	Address       Address       `json:"address" dynamodbav:"address"`
	Amount        float64       `json:"amount" dynamodbav:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method" dynamodbav:"payment_method"`
	Payment       bool          `json:"payment" dynamodbav:"payment"`
	Status        OrderStatus   `json:"status" dynamodbav:"status"`
	// TranID is the transaction id handed to the hosted gateway at
	// initiation; callbacks must echo it back.
	TranID    string       `json:"tran_id,omitempty" dynamodbav:"tran_id,omitempty"`
	Delivery  DeliveryMeta `json:"delivery" dynamodbav:"delivery"`
	CreatedAt time.Time    `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" dynamodbav:"updated_at"`
}

// IsFailure reports whether the status is one of the terminal
// payment-failure states.
func (s OrderStatus) IsFailure() bool {
	return s == OrderStatusPaymentFailed || s == OrderStatusPaymentCancelled
}

// ValidPaymentMethod reports membership in the closed method set.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodSSLCommerz, PaymentMethodBkash:
		return true
	}
	return false
}

type CartItem struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Items    []CartItem        `json:"items" binding:"required,min=1"`
	Address  Address           `json:"address" binding:"required"`
	Delivery *DeliveryOverride `json:"delivery,omitempty"`
}

// DeliveryOverride lets the storefront pin a delivery area explicitly.
// Area must be one of the recognized tags; Fee must be non-negative.
type DeliveryOverride struct {
	Area string  `json:"area"`
	Fee  float64 `json:"fee"`
}

type CreateOrderResponse struct {
	OrderID string      `json:"order_id"`
	Status  OrderStatus `json:"status"`
	Amount  float64     `json:"amount"`
	Message string      `json:"message"`
}
