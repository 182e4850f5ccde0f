package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mailTestOrder() *Order {
	return &Order{
		ID: 42,
		Items: []OrderItem{
			{BookID: 7, Title: "Justice League: Origin", Price: 880, Quantity: 1},
			{BookID: 8, Title: "Superman: Red Son", Price: 940, Quantity: 2},
		},
		Address:         "221B Baker Street",
		Phone:           "9876543210",
		GrandTotal:      "2760.00",
		OrderDate:       "Sat Mar 14 2026",
		DeliveryDate:    "Wed Mar 18 2026",
		DeliveryPartner: "Delhivery",
		Status:          StatusProcessing,
		PaymentStatus:   PaymentPaid,
		PaymentMethod:   PaymentMethodRazorpay,
	}
}

func TestOrderConfirmationBody(t *testing.T) {
	text, html := orderConfirmationBody("Avid Reader", mailTestOrder())

	// both variants carry the full summary
	for _, body := range []string{text, html} {
		assert.Contains(t, body, "Justice League: Origin")
		assert.Contains(t, body, "Superman: Red Son")
		assert.Contains(t, body, "2760.00")
		assert.Contains(t, body, "Delhivery")
		assert.Contains(t, body, "Wed Mar 18 2026")
		assert.Contains(t, body, "221B Baker Street")
		assert.Contains(t, body, "9876543210")
		assert.Contains(t, body, "Avid Reader")
	}

	assert.NotContains(t, text, "<table>", "plain-text variant must not contain markup")
	assert.Contains(t, text, "- Superman: Red Son x2 (Rs. 940.00)")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>Superman: Red Son</td>")
}

func TestOrderCancellationBodyRefunded(t *testing.T) {
	order := mailTestOrder()
	order.Status = StatusCancelled
	order.PaymentStatus = PaymentRefunded

	text, html := orderCancellationBody("Avid Reader", order)

	for _, body := range []string{text, html} {
		assert.Contains(t, body, "refund of Rs. 2760.00")
		assert.Contains(t, body, "Sat Mar 14 2026")
	}
	assert.NotContains(t, text, "<div")
}

func TestOrderCancellationBodyCOD(t *testing.T) {
	order := mailTestOrder()
	order.Status = StatusCancelled
	order.PaymentMethod = PaymentMethodCOD
	order.PaymentStatus = PaymentPending

	text, html := orderCancellationBody("Avid Reader", order)

	for _, body := range []string{text, html} {
		assert.Contains(t, body, "No payment was captured")
		assert.NotContains(t, body, "refund of")
	}
}

func TestPasswordResetBodyCarriesLink(t *testing.T) {
	link := "https://booknest.example/reset-password?token=abc-123"
	text, html := passwordResetBody("Avid Reader", link)

	require.Contains(t, text, link)
	require.Contains(t, html, link)
	assert.Contains(t, text, "15 minutes")
	assert.Contains(t, html, "15 minutes")
}
