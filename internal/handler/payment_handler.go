package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kabir4874/AnondoShop-Backend/internal/apperr"
	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
	"github.com/Kabir4874/AnondoShop-Backend/internal/payment"
	"github.com/Kabir4874/AnondoShop-Backend/internal/service"
)

// HostedGateway is the redirect-based provider (SSLCommerz).
type HostedGateway interface {
	InitiateSession(ctx context.Context, order *domain.Order, cb payment.CallbackURLs) (string, error)
}

// WalletGateway is the token-API provider (bKash).
type WalletGateway interface {
	CreatePayment(ctx context.Context, amount float64, invoiceID, callbackURL string) (*payment.CreatePaymentResponse, error)
	ExecutePayment(ctx context.Context, paymentID string) (*payment.ExecutePaymentResponse, error)
}

// PaymentHandler drives both gateway flows. The callback endpoints are
// called by the providers themselves (no auth header); they trust the
// pass-through order id embedded at initiation, cross-checked against
// the stored transaction id where the provider echoes one. Full
// signature verification of callback payloads is still an open gap.
type PaymentHandler struct {
	orders *service.OrderService
	users  *service.UserService
	hosted HostedGateway
	wallet WalletGateway

	// publicBaseURL is where providers call us back; clientURL is the
	// storefront page customers land on after a redirect flow.
	publicBaseURL string
	clientURL     string

	logger *zap.Logger
}

func NewPaymentHandler(orders *service.OrderService, users *service.UserService, hosted HostedGateway, wallet WalletGateway, publicBaseURL, clientURL string, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		orders:        orders,
		users:         users,
		hosted:        hosted,
		wallet:        wallet,
		publicBaseURL: publicBaseURL,
		clientURL:     clientURL,
		logger:        logger,
	}
}

func (h *PaymentHandler) createPending(c *gin.Context, method domain.PaymentMethod) (*domain.Order, bool) {
	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "items and address are required",
		})
		return nil, false
	}

	userID, err := resolveUser(c, h.users, req.Address)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}

	order, err := h.orders.CreatePendingOrder(c.Request.Context(), service.CreatePendingInput{
		UserID:        userID,
		Items:         req.Items,
		Address:       req.Address,
		PaymentMethod: method,
		Override:      req.Delivery,
		RequestID:     c.GetString("request_id"),
	})
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return order, true
}

// InitiateSSL creates a pending order and opens a hosted-checkout
// session. No usable redirect URL means the pending order is rolled
// back; the customer retries by resubmitting.
func (h *PaymentHandler) InitiateSSL(c *gin.Context) {
	order, ok := h.createPending(c, domain.PaymentMethodSSLCommerz)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	order.TranID = fmt.Sprintf("%s-%s", order.OrderID[:8], uuid.New().String()[:8])
	if err := h.orders.SetTranID(ctx, order.OrderID, order.TranID); err != nil {
		h.orders.RollbackInitiation(ctx, order.OrderID, "failed to pin transaction id")
		h.fail(c, err)
		return
	}

	cb := payment.CallbackURLs{
		Success: h.publicBaseURL + "/api/order/ssl/success",
		Fail:    h.publicBaseURL + "/api/order/ssl/fail",
		Cancel:  h.publicBaseURL + "/api/order/ssl/cancel",
		IPN:     h.publicBaseURL + "/api/order/ssl/ipn",
	}

	gatewayURL, err := h.hosted.InitiateSession(ctx, order, cb)
	if err != nil {
		h.orders.RollbackInitiation(ctx, order.OrderID, "sslcommerz session init failed")
		h.fail(c, apperr.Upstream(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"url":      gatewayURL,
		"order_id": order.OrderID,
	})
}

// sslOrderID pulls the pass-through order id off a provider callback
// and rejects it when the echoed transaction id does not match the one
// stored at initiation.
func (h *PaymentHandler) sslOrderID(c *gin.Context) (string, bool) {
	orderID := c.PostForm("value_a")
	if orderID == "" {
		return "", false
	}

	if tranID := c.PostForm("tran_id"); tranID != "" {
		order, err := h.orders.Get(c.Request.Context(), orderID)
		if err != nil || (order.TranID != "" && order.TranID != tranID) {
			h.logger.Warn("SSL callback transaction id mismatch",
				zap.String("order_id", orderID))
			return "", false
		}
	}
	return orderID, true
}

// SSLSuccess handles the provider's success redirect. The customer's
// browser is mid-redirect, so every outcome ends in a redirect to the
// storefront result page, never a JSON error.
func (h *PaymentHandler) SSLSuccess(c *gin.Context) {
	orderID, ok := h.sslOrderID(c)
	if !ok {
		h.redirectResult(c, "error", "")
		return
	}

	if err := h.orders.MarkPaid(c.Request.Context(), orderID); err != nil {
		h.logger.Error("Failed to mark order paid on SSL success",
			zap.String("order_id", orderID),
			zap.Error(err))
		h.redirectResult(c, "error", orderID)
		return
	}
	h.redirectResult(c, "success", orderID)
}

func (h *PaymentHandler) SSLFail(c *gin.Context) {
	orderID, ok := h.sslOrderID(c)
	if ok {
		if err := h.orders.MarkFailed(c.Request.Context(), orderID, "gateway reported failure"); err != nil {
			h.logger.Error("Failed to mark order failed",
				zap.String("order_id", orderID),
				zap.Error(err))
		}
	}
	h.redirectResult(c, "failed", orderID)
}

func (h *PaymentHandler) SSLCancel(c *gin.Context) {
	orderID, ok := h.sslOrderID(c)
	if ok {
		if err := h.orders.MarkCancelled(c.Request.Context(), orderID); err != nil {
			h.logger.Error("Failed to mark order cancelled",
				zap.String("order_id", orderID),
				zap.Error(err))
		}
	}
	h.redirectResult(c, "cancelled", orderID)
}

// SSLIPN receives the out-of-band notification. Logging hook for now;
// TODO: verify the payment against the SSLCommerz validation API.
func (h *PaymentHandler) SSLIPN(c *gin.Context) {
	if err := c.Request.ParseForm(); err == nil {
		h.logger.Info("SSL IPN received",
			zap.String("tran_id", c.PostForm("tran_id")),
			zap.String("status", c.PostForm("status")),
			zap.String("order_id", c.PostForm("value_a")))
	}
	c.String(http.StatusOK, "OK")
}

// CreateBkash creates the pending order first, so the callback always
// has something to settle, then opens the wallet payment session.
func (h *PaymentHandler) CreateBkash(c *gin.Context) {
	order, ok := h.createPending(c, domain.PaymentMethodBkash)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	callbackURL := fmt.Sprintf("%s/api/order/bkash/callback?orderId=%s", h.publicBaseURL, order.OrderID)

	session, err := h.wallet.CreatePayment(ctx, order.Amount, order.OrderID, callbackURL)
	if err != nil {
		h.orders.RollbackInitiation(ctx, order.OrderID, "bkash create payment failed")
		h.fail(c, apperr.Upstream(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"order_id": order.OrderID,
		"payment":  session,
	})
}

// BkashCallback lands the customer back from the wallet flow. A
// failure/cancel status or a missing payment reference marks the order
// failed without touching the execute endpoint; otherwise the execute
// call's "0000" status is the only trigger for marking paid.
func (h *PaymentHandler) BkashCallback(c *gin.Context) {
	orderID := c.Query("orderId")
	paymentID := c.Query("paymentID")
	status := c.Query("status")
	ctx := c.Request.Context()

	if orderID == "" {
		h.redirectResult(c, "error", "")
		return
	}

	if status != "success" || paymentID == "" {
		if err := h.orders.MarkFailed(ctx, orderID, "bkash redirect status "+status); err != nil {
			h.logger.Error("Failed to mark order failed on bkash callback",
				zap.String("order_id", orderID),
				zap.Error(err))
		}
		h.redirectResult(c, "failed", orderID)
		return
	}

	exec, err := h.wallet.ExecutePayment(ctx, paymentID)
	if err != nil || exec.StatusCode != payment.BkashStatusSuccess {
		reason := "bkash execute failed"
		if err == nil {
			reason = "bkash execute status " + exec.StatusCode
		}
		if markErr := h.orders.MarkFailed(ctx, orderID, reason); markErr != nil {
			h.logger.Error("Failed to mark order failed after execute",
				zap.String("order_id", orderID),
				zap.Error(markErr))
		}
		h.redirectResult(c, "failed", orderID)
		return
	}

	if err := h.orders.MarkPaid(ctx, orderID); err != nil {
		h.logger.Error("Failed to mark order paid after execute",
			zap.String("order_id", orderID),
			zap.Error(err))
		h.redirectResult(c, "error", orderID)
		return
	}
	h.redirectResult(c, "success", orderID)
}

func (h *PaymentHandler) redirectResult(c *gin.Context, status, orderID string) {
	q := url.Values{}
	q.Set("status", status)
	if orderID != "" {
		q.Set("orderId", orderID)
	}
	c.Redirect(http.StatusFound, h.clientURL+"/payment-result?"+q.Encode())
}

func (h *PaymentHandler) fail(c *gin.Context, err error) {
	if apperr.HTTPStatus(err) >= http.StatusInternalServerError {
		h.logger.Error("Payment request failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
	}
	failJSON(c, err)
}
