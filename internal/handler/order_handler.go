package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kabir4874/AnondoShop-Backend/internal/apperr"
	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
	"github.com/Kabir4874/AnondoShop-Backend/internal/service"
	"github.com/Kabir4874/AnondoShop-Backend/pkg/middleware"
)

// CourierChecker probes the courier partner for delivery feasibility.
type CourierChecker interface {
	RateCheck(ctx context.Context, phone string) (json.RawMessage, error)
}

type OrderHandler struct {
	orders  *service.OrderService
	users   *service.UserService
	tracker *service.TrackingProjector
	courier CourierChecker
	logger  *zap.Logger
}

func NewOrderHandler(orders *service.OrderService, users *service.UserService, tracker *service.TrackingProjector, courier CourierChecker, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		users:   users,
		tracker: tracker,
		courier: courier,
		logger:  logger,
	}
}

// resolveUser returns the authenticated user id, or ensures an account
// by the (validated) destination phone for guest checkout. Identity is
// never read from the request body.
func resolveUser(c *gin.Context, users *service.UserService, addr domain.Address) (string, error) {
	if id, ok := middleware.IdentityFrom(c); ok {
		return id.UserID, nil
	}

	addr = addr.Normalize()
	if err := addr.Validate(false); err != nil {
		return "", apperr.Validation(err)
	}
	user, err := users.EnsureByPhone(c.Request.Context(), addr.Phone, addr.RecipientName)
	if err != nil {
		return "", err
	}
	return user.UserID, nil
}

// PlaceOrder creates a cash-on-delivery order. No provider call is
// made; fulfillment confirms payment out of band.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "items and address are required",
		})
		return
	}

	userID, err := resolveUser(c, h.users, req.Address)
	if err != nil {
		h.fail(c, err)
		return
	}

	order, err := h.orders.CreatePendingOrder(c.Request.Context(), service.CreatePendingInput{
		UserID:        userID,
		Items:         req.Items,
		Address:       req.Address,
		PaymentMethod: domain.PaymentMethodCOD,
		Override:      req.Delivery,
		RequestID:     c.GetString("request_id"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Order Placed",
		"order_id": order.OrderID,
		"amount":   order.Amount,
	})
}

func (h *OrderHandler) AllOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *OrderHandler) UserOrders(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	orders, err := h.orders.ListByUser(c.Request.Context(), id.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

type updateStatusRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "order_id and status are required"})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), req.OrderID, domain.OrderStatus(req.Status)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status Updated"})
}

type updateAddressRequest struct {
	OrderID string         `json:"order_id" binding:"required"`
	Address domain.Address `json:"address" binding:"required"`
}

func (h *OrderHandler) UpdateAddress(c *gin.Context) {
	var req updateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "order_id and address are required"})
		return
	}

	if err := h.orders.UpdateAddress(c.Request.Context(), req.OrderID, req.Address); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address Updated"})
}

// TrackMine serves authenticated tracking for the caller's own order.
func (h *OrderHandler) TrackMine(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	order, err := h.orders.GetOwned(c.Request.Context(), c.Param("orderId"), id.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tracking": h.tracker.Project(order)})
}

type trackLookupRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
}

// TrackLookup is the public tracking path: order id plus the phone the
// order was placed with.
func (h *OrderHandler) TrackLookup(c *gin.Context) {
	var req trackLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "order_id and phone are required"})
		return
	}

	order, err := h.orders.TrackLookup(c.Request.Context(), req.OrderID, req.Phone)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tracking": h.tracker.Project(order)})
}

type courierCheckRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// CourierCheck surfaces the courier partner's rate data verbatim to
// the admin caller.
func (h *OrderHandler) CourierCheck(c *gin.Context) {
	var req courierCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "phone is required"})
		return
	}

	data, err := h.courier.RateCheck(c.Request.Context(), domain.NormalizePhone(req.Phone))
	if err != nil {
		h.fail(c, apperr.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "courier": data})
}

func (h *OrderHandler) fail(c *gin.Context, err error) {
	if apperr.HTTPStatus(err) >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
	}
	failJSON(c, err)
}

func failJSON(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{
		"success": false,
		"message": err.Error(),
		"code":    apperr.Kind(err),
	})
}
