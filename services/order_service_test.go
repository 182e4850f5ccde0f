package services

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"booknest/libs"
	"booknest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileStatus(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		status       string
		deliveryDate string
		wantStatus   string
		wantChanged  bool
	}{
		{
			name:         "past delivery date becomes delivered",
			status:       models.StatusProcessing,
			deliveryDate: "Tue Mar 10 2026",
			wantStatus:   models.StatusDelivered,
			wantChanged:  true,
		},
		{
			name:         "future delivery date stays processing",
			status:       models.StatusProcessing,
			deliveryDate: "Wed Mar 18 2026",
			wantStatus:   models.StatusProcessing,
		},
		{
			name:         "cancelled orders are never revived",
			status:       models.StatusCancelled,
			deliveryDate: "Tue Mar 10 2026",
			wantStatus:   models.StatusCancelled,
		},
		{
			name:         "already delivered is untouched",
			status:       models.StatusDelivered,
			deliveryDate: "Tue Mar 10 2026",
			wantStatus:   models.StatusDelivered,
		},
		{
			name:         "unparseable date is left alone",
			status:       models.StatusProcessing,
			deliveryDate: "someday",
			wantStatus:   models.StatusProcessing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &models.Order{Status: tt.status, DeliveryDate: tt.deliveryDate}
			changed := ReconcileStatus(order, now)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStatus, order.Status)
		})
	}
}

func TestReconcileStatusIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	order := &models.Order{Status: models.StatusProcessing, DeliveryDate: "Tue Mar 10 2026"}

	assert.True(t, ReconcileStatus(order, now))
	assert.False(t, ReconcileStatus(order, now))
	assert.Equal(t, models.StatusDelivered, order.Status)
}

func TestListOrdersReconcilesAndComputesMetrics(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.orders[1] = &models.Order{
		ID: 1, UserID: 7, Status: models.StatusProcessing,
		DeliveryDate: "Tue Mar 10 2026", GrandTotal: "450.00",
	}
	repo.orders[2] = &models.Order{
		ID: 2, UserID: 7, Status: models.StatusCancelled,
		DeliveryDate: "Wed Mar 11 2026", GrandTotal: "550.00",
	}

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc := NewOrderService(repo, &fakeGateway{}, nil).
		WithClock(func() time.Time { return now })

	orders, metrics, err := svc.ListOrders(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, 2, metrics.TotalOrders)
	assert.InDelta(t, 1000.0, metrics.TotalSpent, 0.001)
	assert.Equal(t, 1, metrics.DeliveredOrders)
	assert.Equal(t, 1, metrics.CancelledOrders)
	assert.Equal(t, 0, metrics.ProcessingOrders)

	// the transition was written back
	assert.Contains(t, repo.updates, models.StatusDelivered)
}

func TestListOrdersSurvivesPersistFailure(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.orders[1] = &models.Order{
		ID: 1, UserID: 7, Status: models.StatusProcessing,
		DeliveryDate: "Tue Mar 10 2026", GrandTotal: "450.00",
	}
	repo.updateErr = errors.New("connection reset")

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc := NewOrderService(repo, &fakeGateway{}, nil).
		WithClock(func() time.Time { return now })

	orders, _, err := svc.ListOrders(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusDelivered, orders[0].Status, "caller still sees the reconciled status")
}

func cancellableOrder(now time.Time) *models.Order {
	return &models.Order{
		ID:               1,
		UserID:           7,
		Status:           models.StatusProcessing,
		OrderDate:        now.Format(models.DateLayout),
		DeliveryDate:     now.AddDate(0, 0, 4).Format(models.DateLayout),
		GrandTotal:       "450.00",
		PaymentMethod:    models.PaymentMethodRazorpay,
		PaymentStatus:    models.PaymentPaid,
		GatewayPaymentID: "pay_Xyz789",
	}
}

func TestCancelSameDayPrepaidRefundsFirst(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	repo := newFakeOrderRepo()
	repo.orders[1] = cancellableOrder(now)
	gateway := &fakeGateway{}
	mailer := newFakeMailer()

	svc := NewOrderService(repo, gateway, mailer).
		WithClock(func() time.Time { return now })

	order, err := svc.Cancel(context.Background(), testIdentity(), 1)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, order.Status)
	assert.Equal(t, models.PaymentRefunded, order.PaymentStatus)
	require.Len(t, gateway.refunds, 1)
	assert.Equal(t, "pay_Xyz789", gateway.refunds[0])
	assert.Equal(t, int64(45000), gateway.lastAmount, "refund amount is in minor units")

	select {
	case <-mailer.cancellations:
	case <-time.After(time.Second):
		t.Fatal("cancellation email was never sent")
	}
}

func TestCancelRejectsNextDay(t *testing.T) {
	placed := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	repo := newFakeOrderRepo()
	repo.orders[1] = cancellableOrder(placed)
	gateway := &fakeGateway{}

	svc := NewOrderService(repo, gateway, nil).
		WithClock(func() time.Time { return placed.AddDate(0, 0, 1) })

	_, err := svc.Cancel(context.Background(), testIdentity(), 1)
	assert.ErrorIs(t, err, ErrCancellationNotAllowed)
	assert.Empty(t, gateway.refunds, "no refund may be issued for a rejected cancellation")
	assert.Equal(t, models.StatusProcessing, repo.orders[1].Status)
}

func TestCancelRejectsNonProcessing(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	repo := newFakeOrderRepo()
	order := cancellableOrder(now)
	order.Status = models.StatusDelivered
	repo.orders[1] = order

	svc := NewOrderService(repo, &fakeGateway{}, nil).
		WithClock(func() time.Time { return now })

	_, err := svc.Cancel(context.Background(), testIdentity(), 1)
	assert.ErrorIs(t, err, ErrCancellationNotAllowed)
}

func TestCancelRefundFailureLeavesOrderUntouched(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	repo := newFakeOrderRepo()
	repo.orders[1] = cancellableOrder(now)
	gateway := &fakeGateway{refundErr: errors.New("refund rejected")}

	svc := NewOrderService(repo, gateway, nil).
		WithClock(func() time.Time { return now })

	_, err := svc.Cancel(context.Background(), testIdentity(), 1)
	assert.ErrorIs(t, err, ErrRefundFailed)
	assert.Equal(t, models.StatusProcessing, repo.orders[1].Status)
	assert.Equal(t, models.PaymentPaid, repo.orders[1].PaymentStatus)
}

func TestCancelLogsRefundWhenWriteFails(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	repo := newFakeOrderRepo()
	repo.orders[1] = cancellableOrder(now)
	repo.updateErr = errors.New("connection reset")
	gateway := &fakeGateway{}

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	svc := NewOrderService(repo, gateway, nil).
		WithClock(func() time.Time { return now })

	_, err := svc.Cancel(context.Background(), testIdentity(), 1)
	require.Error(t, err)

	require.Len(t, gateway.refunds, 1, "the refund went through before the write failed")
	assert.Contains(t, buf.String(), "rfnd_test", "the refund id must be logged for reconciliation")
	assert.Contains(t, buf.String(), "pay_Xyz789")
}

func TestCancelProviderUnavailablePassesThrough(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	repo := newFakeOrderRepo()
	repo.orders[1] = cancellableOrder(now)
	gateway := &fakeGateway{refundErr: libs.ErrProviderUnavailable}

	svc := NewOrderService(repo, gateway, nil).
		WithClock(func() time.Time { return now })

	_, err := svc.Cancel(context.Background(), testIdentity(), 1)
	assert.ErrorIs(t, err, libs.ErrProviderUnavailable)
	assert.Equal(t, models.StatusProcessing, repo.orders[1].Status)
}

func TestCancelCODSkipsRefund(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	repo := newFakeOrderRepo()
	order := cancellableOrder(now)
	order.PaymentMethod = models.PaymentMethodCOD
	order.PaymentStatus = models.PaymentPending
	order.GatewayPaymentID = ""
	repo.orders[1] = order
	gateway := &fakeGateway{}

	svc := NewOrderService(repo, gateway, nil).
		WithClock(func() time.Time { return now })

	cancelled, err := svc.Cancel(context.Background(), testIdentity(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentPending, cancelled.PaymentStatus)
	assert.Empty(t, gateway.refunds)
}
