package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Kabir4874/AnondoShop-Backend/internal/pricing"
	"github.com/Kabir4874/AnondoShop-Backend/internal/repository"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUpstream       = errors.New("upstream provider error")
	ErrConflict       = errors.New("conflicting order state")
)

// Validation wraps a field-level failure so it maps to 400.
func Validation(reason error) error {
	return fmt.Errorf("%w: %s", ErrInvalidAddress, reason)
}

// Upstream wraps a provider failure so it maps to 502/504.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUpstream, err)
}

func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, pricing.ErrEmptyCart):
		return "empty_cart"

	case errors.Is(err, pricing.ErrProductUnavailable):
		return "product_unavailable"

	case errors.Is(err, ErrInvalidAddress):
		return "invalid_address"

	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"

	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return "not_found"

	case errors.Is(err, ErrConflict):
		return "conflict"

	case errors.Is(err, ErrUpstream):
		return "upstream"

	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"

	default:
		return "internal"
	}
}

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, pricing.ErrEmptyCart),
		errors.Is(err, ErrInvalidAddress):
		return http.StatusBadRequest

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, pricing.ErrProductUnavailable),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrConflict):
		return http.StatusConflict

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
