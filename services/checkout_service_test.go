package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"booknest/libs"
	"booknest/models"
	"booknest/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	mu        sync.Mutex
	created   []*models.Order
	createErr error
	orders    map[int]*models.Order
	updates   []string
	updateErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int]*models.Order{}}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	order.ID = len(r.created) + 1
	r.created = append(r.created, order)
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindByUser(ctx context.Context, userID int) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByIDAndUser(ctx context.Context, orderID, userID int) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, errors.New("order not found")
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, status)
	if o, ok := r.orders[orderID]; ok {
		o.Status = status
	}
	return nil
}

func (r *fakeOrderRepo) UpdateStatusAndPayment(ctx context.Context, orderID int, status, paymentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, status+"/"+paymentStatus)
	if o, ok := r.orders[orderID]; ok {
		o.Status = status
		o.PaymentStatus = paymentStatus
	}
	return nil
}

type fakeCartStore struct {
	mu      sync.Mutex
	items   []models.CartItem
	getErr  error
	cleared bool
}

func (s *fakeCartStore) Get(ctx context.Context, userID int) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *fakeCartStore) Add(ctx context.Context, userID int, item models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return nil
}

func (s *fakeCartStore) Remove(ctx context.Context, userID, bookID int) error { return nil }

func (s *fakeCartStore) Clear(ctx context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.cleared = true
	return nil
}

type fakeGateway struct {
	mu         sync.Mutex
	refunds    []string
	refundErr  error
	createErr  error
	lastAmount int64
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*libs.GatewayOrder, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &libs.GatewayOrder{ID: "order_test", Amount: amount, Currency: currency, Receipt: receipt}, nil
}

func (g *fakeGateway) Refund(ctx context.Context, paymentID string, amount int64, reason string) (*libs.Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunds = append(g.refunds, paymentID)
	g.lastAmount = amount
	return &libs.Refund{ID: "rfnd_test", PaymentID: paymentID, Amount: amount, Status: "processed"}, nil
}

type fakeMailer struct {
	confirmations chan string
	cancellations chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{
		confirmations: make(chan string, 4),
		cancellations: make(chan string, 4),
	}
}

func (m *fakeMailer) SendOrderConfirmation(to, name string, order *models.Order) error {
	m.confirmations <- to
	return nil
}

func (m *fakeMailer) SendOrderCancellation(to, name string, order *models.Order) error {
	m.cancellations <- to
	return nil
}

const testSecret = "test-secret"

func testIdentity() Identity {
	return Identity{UserID: 7, Email: "reader@example.com", FullName: "Avid Reader"}
}

func signedRequest(secret string) models.VerifyPaymentRequest {
	orderID := "order_Abc123"
	paymentID := "pay_Xyz789"
	return models.VerifyPaymentRequest{
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: utils.PaymentSignature(orderID, paymentID, secret),
		Address:           "221B Baker Street",
		Phone:             "9876543210",
	}
}

func TestCheckoutPrepaidCreatesOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	cart := &fakeCartStore{items: []models.CartItem{
		{BookID: 3, Title: "Atomic Habits", Price: 450, Quantity: 1},
	}}
	mailer := newFakeMailer()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	svc := NewCheckoutService(repo, cart, mailer, testSecret).
		WithClock(func() time.Time { return now }).
		WithRand(rand.New(rand.NewSource(1)))

	order, err := svc.CheckoutPrepaid(context.Background(), testIdentity(), signedRequest(testSecret))
	require.NoError(t, err)

	assert.Equal(t, "450.00", order.Subtotal)
	assert.Equal(t, "450.00", order.GrandTotal)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodRazorpay, order.PaymentMethod)
	assert.Equal(t, "Sat Mar 14 2026", order.OrderDate)
	assert.Contains(t, DeliveryPartners, order.DeliveryPartner)

	deliveryDate, err := time.Parse(models.DateLayout, order.DeliveryDate)
	require.NoError(t, err)
	lead := int(deliveryDate.Sub(now.Truncate(24*time.Hour)).Hours() / 24)
	assert.GreaterOrEqual(t, lead, 3)
	assert.LessOrEqual(t, lead, 7)

	require.Len(t, repo.created, 1)
	assert.True(t, cart.cleared, "cart should be cleared after the order is durable")

	select {
	case to := <-mailer.confirmations:
		assert.Equal(t, "reader@example.com", to)
	case <-time.After(time.Second):
		t.Fatal("confirmation email was never sent")
	}
}

func TestCheckoutPrepaidQuantityAwareTotals(t *testing.T) {
	repo := newFakeOrderRepo()
	cart := &fakeCartStore{items: []models.CartItem{
		{BookID: 7, Title: "Justice League: Origin", Price: 880, Quantity: 1},
		{BookID: 8, Title: "Superman: Red Son", Price: 940, Quantity: 1},
	}}

	svc := NewCheckoutService(repo, cart, nil, testSecret)

	order, err := svc.CheckoutPrepaid(context.Background(), testIdentity(), signedRequest(testSecret))
	require.NoError(t, err)
	assert.Equal(t, "1820.00", order.GrandTotal)
	require.Len(t, order.Items, 2)
}

func TestCheckoutPrepaidRejectsForgedSignature(t *testing.T) {
	repo := newFakeOrderRepo()
	cart := &fakeCartStore{items: []models.CartItem{
		{BookID: 3, Title: "Atomic Habits", Price: 450, Quantity: 1},
	}}

	svc := NewCheckoutService(repo, cart, nil, testSecret)

	req := signedRequest("some-other-secret")
	_, err := svc.CheckoutPrepaid(context.Background(), testIdentity(), req)
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
	assert.Empty(t, repo.created, "no order may exist without a verified signature")
	assert.False(t, cart.cleared, "cart must survive a failed verification")
}

func TestCheckoutPrepaidRequiresAddressAndPhone(t *testing.T) {
	svc := NewCheckoutService(newFakeOrderRepo(), &fakeCartStore{}, nil, testSecret)

	req := signedRequest(testSecret)
	req.Address = "   "
	_, err := svc.CheckoutPrepaid(context.Background(), testIdentity(), req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckoutPrepaidEmptyCart(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewCheckoutService(repo, &fakeCartStore{}, nil, testSecret)

	_, err := svc.CheckoutPrepaid(context.Background(), testIdentity(), signedRequest(testSecret))
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Empty(t, repo.created)
}

func TestCheckoutPrepaidPersistenceFailureKeepsCart(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.createErr = errors.New("connection reset")
	cart := &fakeCartStore{items: []models.CartItem{
		{BookID: 3, Title: "Atomic Habits", Price: 450, Quantity: 1},
	}}

	svc := NewCheckoutService(repo, cart, nil, testSecret)

	_, err := svc.CheckoutPrepaid(context.Background(), testIdentity(), signedRequest(testSecret))
	assert.ErrorIs(t, err, ErrOrderPersistenceFailed)
	assert.False(t, cart.cleared, "cart must stay intact when the order write fails")
	assert.Len(t, cart.items, 1)
}

func TestCheckoutDeterministicWithSeededRand(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	run := func() *models.Order {
		repo := newFakeOrderRepo()
		cart := &fakeCartStore{items: []models.CartItem{
			{BookID: 3, Title: "Atomic Habits", Price: 450, Quantity: 1},
		}}
		svc := NewCheckoutService(repo, cart, nil, testSecret).
			WithClock(func() time.Time { return now }).
			WithRand(rand.New(rand.NewSource(42)))
		order, err := svc.CheckoutPrepaid(context.Background(), testIdentity(), signedRequest(testSecret))
		require.NoError(t, err)
		return order
	}

	first := run()
	second := run()
	assert.Equal(t, first.DeliveryDate, second.DeliveryDate)
	assert.Equal(t, first.DeliveryPartner, second.DeliveryPartner)
}

func TestPlaceOrderCOD(t *testing.T) {
	repo := newFakeOrderRepo()
	cart := &fakeCartStore{items: []models.CartItem{
		{BookID: 10, Title: "Sapiens", Price: 550, Quantity: 2},
	}}

	svc := NewCheckoutService(repo, cart, nil, testSecret)

	order, err := svc.PlaceOrderCOD(context.Background(), testIdentity(), models.PlaceOrderRequest{
		Address: "221B Baker Street",
		Phone:   "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "1100.00", order.GrandTotal)
	assert.True(t, cart.cleared)
}
