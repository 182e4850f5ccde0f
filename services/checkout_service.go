package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"booknest/libs"
	"booknest/models"
	"booknest/repositories"
	"booknest/utils"
)

// DeliveryPartners is the fixed courier roster; one is picked uniformly at
// random for every order.
var DeliveryPartners = []string{"BlueDart", "FedEx", "DTDC", "Delhivery", "Ecom Express"}

// PaymentGateway is the slice of the payment provider the checkout and
// cancellation paths need.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*libs.GatewayOrder, error)
	Refund(ctx context.Context, paymentID string, amount int64, reason string) (*libs.Refund, error)
}

// Mailer sends transactional mail. Implementations are called from detached
// goroutines; a send failure is logged by the caller and never propagated.
type Mailer interface {
	SendOrderConfirmation(to, name string, order *models.Order) error
	SendOrderCancellation(to, name string, order *models.Order) error
}

// CheckoutService turns a verified payment confirmation and the caller's cart
// into a durable order. The signature gate is the single trust boundary: no
// paid order is ever created without a signature match.
type CheckoutService struct {
	orders repositories.OrderRepository
	cart   repositories.CartStore
	mailer Mailer
	secret string

	now func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	// one checkout at a time per user; two concurrent checkouts must not
	// both see a non-empty cart
	locks sync.Map
}

func NewCheckoutService(orders repositories.OrderRepository, cart repositories.CartStore, mailer Mailer, secret string) *CheckoutService {
	return &CheckoutService{
		orders: orders,
		cart:   cart,
		mailer: mailer,
		secret: secret,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock replaces the time source. Test hook.
func (s *CheckoutService) WithClock(now func() time.Time) *CheckoutService {
	s.now = now
	return s
}

// WithRand replaces the randomness source used for delivery lead time and
// partner selection. Test hook.
func (s *CheckoutService) WithRand(rng *rand.Rand) *CheckoutService {
	s.rng = rng
	return s
}

func (s *CheckoutService) userLock(userID int) *sync.Mutex {
	l, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return l.(*sync.Mutex)
}

// CheckoutPrepaid verifies the gateway signature and, on a match, converts
// the caller's cart into a paid order. The cart is cleared only after the
// order row is committed, so a failed write leaves the cart intact for retry.
func (s *CheckoutService) CheckoutPrepaid(ctx context.Context, user Identity, req models.VerifyPaymentRequest) (*models.Order, error) {
	address := strings.TrimSpace(req.Address)
	phone := strings.TrimSpace(req.Phone)
	if address == "" || phone == "" {
		return nil, ErrValidation
	}

	if !utils.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, s.secret) {
		return nil, ErrPaymentVerificationFailed
	}

	lock := s.userLock(user.UserID)
	lock.Lock()
	defer lock.Unlock()

	order, err := s.materialize(ctx, user, address, phone)
	if err != nil {
		return nil, err
	}

	order.PaymentMethod = models.PaymentMethodRazorpay
	order.PaymentStatus = models.PaymentPaid
	order.GatewayOrderID = req.RazorpayOrderID
	order.GatewayPaymentID = req.RazorpayPaymentID
	order.GatewaySignature = req.RazorpaySignature

	if err := s.persistAndClear(ctx, user.UserID, order); err != nil {
		return nil, err
	}

	s.notifyConfirmation(user, order)
	return order, nil
}

// PlaceOrderCOD materializes a cash-on-delivery order. No signature gate:
// nothing has been paid, so paymentStatus stays Pending until delivery.
func (s *CheckoutService) PlaceOrderCOD(ctx context.Context, user Identity, req models.PlaceOrderRequest) (*models.Order, error) {
	address := strings.TrimSpace(req.Address)
	phone := strings.TrimSpace(req.Phone)
	if address == "" || phone == "" {
		return nil, ErrValidation
	}

	lock := s.userLock(user.UserID)
	lock.Lock()
	defer lock.Unlock()

	order, err := s.materialize(ctx, user, address, phone)
	if err != nil {
		return nil, err
	}

	order.PaymentMethod = models.PaymentMethodCOD
	order.PaymentStatus = models.PaymentPending

	if err := s.persistAndClear(ctx, user.UserID, order); err != nil {
		return nil, err
	}

	s.notifyConfirmation(user, order)
	return order, nil
}

// materialize snapshots the cart into an order with computed totals and
// synthesized delivery metadata. The order is not yet persisted.
func (s *CheckoutService) materialize(ctx context.Context, user Identity, address, phone string) (*models.Order, error) {
	items, err := s.cart.Get(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := 0.0
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			BookID:   item.BookID,
			Title:    item.Title,
			Price:    item.Price,
			Image:    item.Image,
			Quantity: item.Quantity,
		})
	}

	now := s.now()

	s.rngMu.Lock()
	deliveryDays := 3 + s.rng.Intn(5) // 3-7 days
	partner := DeliveryPartners[s.rng.Intn(len(DeliveryPartners))]
	s.rngMu.Unlock()

	return &models.Order{
		UserID:          user.UserID,
		Items:           orderItems,
		Address:         address,
		Phone:           phone,
		Subtotal:        utils.FormatAmount(subtotal),
		GrandTotal:      utils.FormatAmount(subtotal), // no tax or shipping modeling
		OrderDate:       now.Format(models.DateLayout),
		DeliveryDate:    now.AddDate(0, 0, deliveryDays).Format(models.DateLayout),
		DeliveryPartner: partner,
		Status:          models.StatusProcessing,
	}, nil
}

func (s *CheckoutService) persistAndClear(ctx context.Context, userID int, order *models.Order) error {
	if err := s.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("%w: %v", ErrOrderPersistenceFailed, err)
	}

	// The order is durable now; an error clearing the cart is logged but
	// must not fail the checkout.
	if err := s.cart.Clear(ctx, userID); err != nil {
		log.Printf("Warning: failed to clear cart for user %d after order %d: %v", userID, order.ID, err)
	}
	return nil
}

func (s *CheckoutService) notifyConfirmation(user Identity, order *models.Order) {
	if s.mailer == nil || user.Email == "" {
		return
	}
	go func() {
		if err := s.mailer.SendOrderConfirmation(user.Email, user.FullName, order); err != nil {
			log.Printf("Failed to send confirmation email for order %d: %v", order.ID, err)
		}
	}()
}
