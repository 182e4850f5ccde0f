package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "test-secret"
	sig := PaymentSignature("order_Abc123", "pay_Xyz789", secret)

	assert.True(t, VerifyPaymentSignature("order_Abc123", "pay_Xyz789", sig, secret))
}

func TestVerifyPaymentSignatureRejectsTampering(t *testing.T) {
	secret := "test-secret"
	sig := PaymentSignature("order_Abc123", "pay_Xyz789", secret)

	// flip a single character
	tampered := []byte(sig)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}

	assert.False(t, VerifyPaymentSignature("order_Abc123", "pay_Xyz789", string(tampered), secret))
	assert.False(t, VerifyPaymentSignature("order_Abc124", "pay_Xyz789", sig, secret))
	assert.False(t, VerifyPaymentSignature("order_Abc123", "pay_Xyz780", sig, secret))
	assert.False(t, VerifyPaymentSignature("order_Abc123", "pay_Xyz789", sig, "other-secret"))
	assert.False(t, VerifyPaymentSignature("order_Abc123", "pay_Xyz789", "", secret))
}

func TestPaymentSignatureJoinsWithPipe(t *testing.T) {
	secret := "test-secret"

	// the delimiter matters: shifting a character across it must change the
	// payload, not produce the same signature
	assert.NotEqual(t,
		PaymentSignature("order_A", "bpay_X", secret),
		PaymentSignature("order_Ab", "pay_X", secret))
}
