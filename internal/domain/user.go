package domain

import "time"

// User is keyed by phone. Checkout creates the account implicitly, so
// PasswordHash may be empty until the customer sets one. The hash
// persists under its dynamodbav name but never leaves through JSON.
type User struct {
	UserID       string             `json:"user_id" dynamodbav:"user_id"`
	Phone        string             `json:"phone" dynamodbav:"phone"`
	Name         string             `json:"name,omitempty" dynamodbav:"name,omitempty"`
	PasswordHash string             `json:"-" dynamodbav:"password_hash,omitempty"`
	Address      *Address           `json:"address,omitempty" dynamodbav:"address,omitempty"`
	CartData     map[string]float64 `json:"cart_data" dynamodbav:"cart_data"`
	CreatedVia   string             `json:"created_via" dynamodbav:"created_via"`
	CreatedAt    time.Time          `json:"created_at" dynamodbav:"created_at"`
	LastLoginAt  time.Time          `json:"last_login_at,omitempty" dynamodbav:"last_login_at,omitempty"`
}

const (
	CreatedViaCheckout = "checkout"
	CreatedViaRegister = "register"
)

// Product supplies read-only pricing inputs. Orders snapshot what they
// need from it and never hold a live reference.
type Product struct {
	ProductID  string   `json:"product_id" dynamodbav:"product_id"`
	Name       string   `json:"name" dynamodbav:"name"`
	Price      float64  `json:"price" dynamodbav:"price"`
	Discount   float64  `json:"discount" dynamodbav:"discount"`
	Sizes      []string `json:"sizes,omitempty" dynamodbav:"sizes,omitempty"`
	Category   string   `json:"category,omitempty" dynamodbav:"category,omitempty"`
	BestSeller bool     `json:"best_seller,omitempty" dynamodbav:"best_seller,omitempty"`
}
