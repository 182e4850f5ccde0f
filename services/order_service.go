package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"booknest/libs"
	"booknest/models"
	"booknest/repositories"
	"booknest/utils"
)

// OrderService owns the order status state machine: the lazy
// Processing -> Delivered transition applied on reads, and the guarded
// same-day cancellation path.
type OrderService struct {
	orders  repositories.OrderRepository
	gateway PaymentGateway
	mailer  Mailer
	now     func() time.Time
}

func NewOrderService(orders repositories.OrderRepository, gateway PaymentGateway, mailer Mailer) *OrderService {
	return &OrderService{
		orders:  orders,
		gateway: gateway,
		mailer:  mailer,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Test hook.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// ReconcileStatus applies the lazy delivery transition: a Processing order
// whose delivery date has passed becomes Delivered. Pure and idempotent;
// reports whether the order changed. There is no background scheduler, this
// runs whenever an order is read.
func ReconcileStatus(order *models.Order, now time.Time) bool {
	if order.Status != models.StatusProcessing {
		return false
	}
	deliveryDate, err := time.Parse(models.DateLayout, order.DeliveryDate)
	if err != nil {
		return false
	}
	if deliveryDate.Before(now) {
		order.Status = models.StatusDelivered
		return true
	}
	return false
}

// ListOrders returns the caller's orders newest first, reconciling statuses
// and computing the account metrics shown on the orders page.
func (s *OrderService) ListOrders(ctx context.Context, userID int) ([]models.Order, models.OrderMetrics, error) {
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, models.OrderMetrics{}, err
	}

	now := s.now()
	metrics := models.OrderMetrics{TotalOrders: len(orders)}

	for i := range orders {
		if ReconcileStatus(&orders[i], now) {
			if err := s.orders.UpdateStatus(ctx, orders[i].ID, orders[i].Status); err != nil {
				log.Printf("Failed to persist delivery transition for order %d: %v", orders[i].ID, err)
			}
		}

		if total, err := strconv.ParseFloat(orders[i].GrandTotal, 64); err == nil {
			metrics.TotalSpent += total
		}
		switch orders[i].Status {
		case models.StatusDelivered:
			metrics.DeliveredOrders++
		case models.StatusCancelled:
			metrics.CancelledOrders++
		case models.StatusProcessing:
			metrics.ProcessingOrders++
		}
	}

	return orders, metrics, nil
}

// TrackOrder returns a single order, reconciled, scoped to its owner.
func (s *OrderService) TrackOrder(ctx context.Context, userID, orderID int) (*models.Order, error) {
	order, err := s.orders.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	if ReconcileStatus(order, s.now()) {
		if err := s.orders.UpdateStatus(ctx, order.ID, order.Status); err != nil {
			log.Printf("Failed to persist delivery transition for order %d: %v", order.ID, err)
		}
	}

	return order, nil
}

// Cancel cancels an order if it is still Processing and was placed today.
// For prepaid orders the gateway refund must succeed first; a refund failure
// aborts the cancellation with the order unchanged. Either the refund and the
// status update both happen, or neither does.
func (s *OrderService) Cancel(ctx context.Context, user Identity, orderID int) (*models.Order, error) {
	order, err := s.orders.FindByIDAndUser(ctx, orderID, user.UserID)
	if err != nil {
		return nil, err
	}

	today := s.now().Format(models.DateLayout)
	if order.Status != models.StatusProcessing || order.OrderDate != today {
		return nil, ErrCancellationNotAllowed
	}

	paymentStatus := order.PaymentStatus
	var refundID string
	if order.PaymentMethod == models.PaymentMethodRazorpay && order.GatewayPaymentID != "" {
		amount := utils.MinorUnits(order.GrandTotal)
		refund, err := s.gateway.Refund(ctx, order.GatewayPaymentID, amount, "User cancelled order")
		if err != nil {
			if errors.Is(err, libs.ErrProviderUnavailable) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrRefundFailed, err)
		}
		refundID = refund.ID
		paymentStatus = models.PaymentRefunded
	}

	if err := s.orders.UpdateStatusAndPayment(ctx, order.ID, models.StatusCancelled, paymentStatus); err != nil {
		// the money already left; keep a trail for manual reconciliation
		if refundID != "" {
			log.Printf("Order %d: refund %s for payment %s was issued but the cancellation write failed: %v",
				order.ID, refundID, order.GatewayPaymentID, err)
		}
		return nil, err
	}

	order.Status = models.StatusCancelled
	order.PaymentStatus = paymentStatus

	s.notifyCancellation(user, order)
	return order, nil
}

func (s *OrderService) notifyCancellation(user Identity, order *models.Order) {
	if s.mailer == nil || user.Email == "" {
		return
	}
	go func() {
		if err := s.mailer.SendOrderCancellation(user.Email, user.FullName, order); err != nil {
			log.Printf("Failed to send cancellation email for order %d: %v", order.ID, err)
		}
	}()
}
