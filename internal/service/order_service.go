package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kabir4874/AnondoShop-Backend/internal/apperr"
	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
	"github.com/Kabir4874/AnondoShop-Backend/internal/events"
	"github.com/Kabir4874/AnondoShop-Backend/internal/pricing"
	"github.com/Kabir4874/AnondoShop-Backend/internal/repository"
)

// OrderStore is the slice of the record store the lifecycle manager
// writes through.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateOrderFields(ctx context.Context, id string, fields map[string]any) error
	DeleteOrder(ctx context.Context, id string) error
}

type CartResetter interface {
	ResetCart(ctx context.Context, userID string) error
}

type CartPricer interface {
	PriceCart(ctx context.Context, items []domain.CartItem, addr domain.Address, override *domain.DeliveryOverride) (*pricing.Quote, error)
}

type OrderEventPublisher interface {
	PublishOrderEvent(event events.OrderEvent) error
}

type CompensationPublisher interface {
	PublishCompensation(event events.CompensationEvent) error
}

// OrderService owns the order lifecycle: pending creation, payment
// transitions, rollback compensation, and queries.
type OrderService struct {
	orders   OrderStore
	users    CartResetter
	pricer   CartPricer
	producer OrderEventPublisher
	comp     CompensationPublisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewOrderService(orders OrderStore, users CartResetter, pricer CartPricer, producer OrderEventPublisher, comp CompensationPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		users:    users,
		pricer:   pricer,
		producer: producer,
		comp:     comp,
		logger:   logger,
		now:      time.Now,
	}
}

type CreatePendingInput struct {
	UserID        string
	Items         []domain.CartItem
	Address       domain.Address
	PaymentMethod domain.PaymentMethod
	Override      *domain.DeliveryOverride
	RequestID     string
}

// CreatePendingOrder validates the destination, prices the cart from
// current product state, and persists the order as Placed/unpaid. The
// amount is frozen here and never recomputed.
func (s *OrderService) CreatePendingOrder(ctx context.Context, in CreatePendingInput) (*domain.Order, error) {
	addr := in.Address.Normalize()
	if err := addr.Validate(false); err != nil {
		return nil, apperr.Validation(err)
	}

	quote, err := s.pricer.PriceCart(ctx, in.Items, addr, in.Override)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &domain.Order{
		OrderID:       uuid.New().String(),
		UserID:        in.UserID,
		Items:         quote.Lines,
		Address:       addr,
		Amount:        quote.TotalAmount,
		PaymentMethod: in.PaymentMethod,
		Payment:       false,
		Status:        domain.OrderStatusPlaced,
		Delivery: domain.DeliveryMeta{
			Fee:    quote.DeliveryFee,
			Label:  quote.DeliveryLabel,
			Source: quote.FeeSource,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.logger.Error("Failed to save order",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
		return nil, err
	}

	s.publish(events.OrderEvent{
		EventID:       uuid.New().String(),
		Type:          events.TypeOrderCreated,
		OrderID:       order.OrderID,
		UserID:        order.UserID,
		TotalAmount:   order.Amount,
		Items:         order.Items,
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(order.Status),
		Timestamp:     s.now(),
		RequestID:     in.RequestID,
	})

	s.logger.Info("Order created",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", order.UserID),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.Float64("amount", order.Amount))

	return order, nil
}

// MarkPaid transitions an order to paid and clears the owner's cart.
// Idempotent: provider callbacks get retried, so a second call on an
// already-paid order is a no-op success, never an error.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Payment {
		s.logger.Info("Duplicate payment confirmation ignored",
			zap.String("order_id", orderID))
		return nil
	}

	fields := map[string]any{
		"payment": true,
		"status":  domain.OrderStatusPaid,
	}
	if err := s.orders.UpdateOrderFields(ctx, orderID, fields); err != nil {
		return err
	}

	if err := s.users.ResetCart(ctx, order.UserID); err != nil {
		// Cart cleanup is cosmetic next to payment state; log and move on.
		s.logger.Warn("Failed to reset cart after payment",
			zap.String("user_id", order.UserID),
			zap.Error(err))
	}

	s.publish(events.OrderEvent{
		EventID:       uuid.New().String(),
		Type:          events.TypePaymentConfirmed,
		OrderID:       order.OrderID,
		UserID:        order.UserID,
		TotalAmount:   order.Amount,
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(domain.OrderStatusPaid),
		Timestamp:     s.now(),
	})

	s.logger.Info("Order marked paid", zap.String("order_id", orderID))
	return nil
}

// MarkFailed moves the order to the terminal Payment Failed state. The
// order is kept for audit, never deleted.
func (s *OrderService) MarkFailed(ctx context.Context, orderID, reason string) error {
	return s.markTerminal(ctx, orderID, domain.OrderStatusPaymentFailed, reason)
}

// MarkCancelled moves the order to the terminal Payment Cancelled state.
func (s *OrderService) MarkCancelled(ctx context.Context, orderID string) error {
	return s.markTerminal(ctx, orderID, domain.OrderStatusPaymentCancelled, "cancelled by customer")
}

func (s *OrderService) markTerminal(ctx context.Context, orderID string, status domain.OrderStatus, reason string) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	// Providers retry callbacks; a late fail/cancel must not downgrade
	// an order that has been paid or moved past Placed.
	if order.Payment || order.Status != domain.OrderStatusPlaced {
		s.logger.Info("Ignoring terminal transition for settled order",
			zap.String("order_id", orderID),
			zap.String("current_status", string(order.Status)),
			zap.String("requested_status", string(status)))
		return nil
	}

	if err := s.orders.UpdateOrderFields(ctx, orderID, map[string]any{"status": status}); err != nil {
		return err
	}

	s.publish(events.OrderEvent{
		EventID:       uuid.New().String(),
		Type:          events.TypePaymentFailed,
		OrderID:       order.OrderID,
		UserID:        order.UserID,
		TotalAmount:   order.Amount,
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(status),
		Reason:        reason,
		Timestamp:     s.now(),
	})

	s.logger.Info("Order payment failed",
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
		zap.String("reason", reason))
	return nil
}

// UpdateStatus is the administrative escape hatch: sets any status
// string unconditionally.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	return s.orders.UpdateOrderFields(ctx, orderID, map[string]any{"status": status})
}

// UpdateAddress corrects the destination on an existing order (admin).
func (s *OrderService) UpdateAddress(ctx context.Context, orderID string, addr domain.Address) error {
	addr = addr.Normalize()
	if err := addr.Validate(false); err != nil {
		return apperr.Validation(err)
	}
	return s.orders.UpdateOrderFields(ctx, orderID, map[string]any{"address": addr})
}

// RollbackInitiation deletes a just-created pending order after a
// payment provider failed to produce a usable session. Compensating
// action, not a lifecycle transition: a Placed order with no way to
// pay would otherwise dangle forever.
func (s *OrderService) RollbackInitiation(ctx context.Context, orderID, reason string) {
	if err := s.orders.DeleteOrder(ctx, orderID); err != nil {
		s.logger.Error("Failed to roll back pending order",
			zap.String("order_id", orderID),
			zap.Error(err))
		return
	}

	if s.comp != nil {
		if err := s.comp.PublishCompensation(events.CompensationEvent{
			EventID:   uuid.New().String(),
			OrderID:   orderID,
			Reason:    reason,
			Timestamp: s.now(),
		}); err != nil {
			s.logger.Error("Failed to publish compensation event",
				zap.String("order_id", orderID),
				zap.Error(err))
		}
	}

	s.logger.Warn("Pending order rolled back",
		zap.String("order_id", orderID),
		zap.String("reason", reason))
}

// SetTranID pins the hosted-gateway transaction id on the order so
// callbacks can be checked against it.
func (s *OrderService) SetTranID(ctx context.Context, orderID, tranID string) error {
	return s.orders.UpdateOrderFields(ctx, orderID, map[string]any{"tran_id": tranID})
}

func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

// GetOwned returns the order only if it belongs to userID.
func (s *OrderService) GetOwned(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		// Don't reveal that the order exists.
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

// TrackLookup is the public tracking path: order id plus the phone on
// the order's address, in any accepted form.
func (s *OrderService) TrackLookup(ctx context.Context, orderID, phone string) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if domain.NormalizePhone(phone) != order.Address.Phone {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

// Event publishing is best effort: the store is the source of truth
// and consumers catch up eventually.
func (s *OrderService) publish(event events.OrderEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishOrderEvent(event); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("order_id", event.OrderID),
			zap.Error(err))
	}
}
