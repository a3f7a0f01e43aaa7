package domain

import (
	"errors"
	"regexp"
	"strings"
)

// Canonical phone form is +8801XXXXXXXXX. The validator and the
// storage layer both operate on this one representation, so
// NormalizePhone must run before either sees the number.
var (
	bdPhoneRe   = regexp.MustCompile(`^(?:\+?88)?01[3-9]\d{8}$`)
	canonicalRe = regexp.MustCompile(`^\+8801[3-9]\d{8}$`)
	localRe     = regexp.MustCompile(`^01[3-9]\d{8}$`)
	prefixedRe  = regexp.MustCompile(`^8801[3-9]\d{8}$`)
	postalRe    = regexp.MustCompile(`^\d{4}$`)
	phoneJunkRe = regexp.MustCompile(`[^\d+]`)
)

// Address is the destination snapshot stored on an order. PostalCode
// is only enforced by the strict schema variant.
type Address struct {
	RecipientName string `json:"recipient_name" dynamodbav:"recipient_name"`
	Phone         string `json:"phone" dynamodbav:"phone"`
	AddressLine1  string `json:"address_line1" dynamodbav:"address_line1"`
	District      string `json:"district" dynamodbav:"district"`
	PostalCode    string `json:"postal_code,omitempty" dynamodbav:"postal_code,omitempty"`
}

// NormalizePhone strips separators and coerces a Bangladesh mobile
// number to +8801XXXXXXXXX. Unrecognized input is returned unchanged
// so validation can report it.
func NormalizePhone(v string) string {
	if v == "" {
		return v
	}
	raw := phoneJunkRe.ReplaceAllString(v, "")
	if canonicalRe.MatchString(raw) {
		return raw
	}
	digits := strings.TrimPrefix(raw, "+")
	if localRe.MatchString(digits) {
		return "+88" + digits
	}
	if prefixedRe.MatchString(digits) {
		return "+" + digits
	}
	return v
}

// ValidPhone reports whether v is a Bangladesh mobile number in any
// accepted form (with or without the country prefix).
func ValidPhone(v string) bool {
	return bdPhoneRe.MatchString(phoneJunkRe.ReplaceAllString(v, ""))
}

// Normalize returns a copy with whitespace trimmed and the phone in
// canonical form.
func (a Address) Normalize() Address {
	a.RecipientName = strings.TrimSpace(a.RecipientName)
	a.Phone = NormalizePhone(strings.TrimSpace(a.Phone))
	a.AddressLine1 = strings.TrimSpace(a.AddressLine1)
	a.District = strings.TrimSpace(a.District)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	return a
}

// Validate checks the address shape for the checkout region and
// returns the first failing reason. Strict mode additionally requires
// a 4-digit postal code; otherwise the postal code is optional but
// still checked when present.
func (a Address) Validate(strict bool) error {
	if a.RecipientName == "" {
		return errors.New("recipient name is required")
	}
	if a.Phone == "" {
		return errors.New("phone is required")
	}
	if !ValidPhone(a.Phone) {
		return errors.New("invalid Bangladesh phone number")
	}
	if a.AddressLine1 == "" {
		return errors.New("address line is required")
	}
	if a.District == "" {
		return errors.New("district is required")
	}
	if strict && a.PostalCode == "" {
		return errors.New("postal code is required")
	}
	if a.PostalCode != "" && !postalRe.MatchString(a.PostalCode) {
		return errors.New("postal code must be exactly 4 digits")
	}
	return nil
}
